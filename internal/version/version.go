// Package version holds pbsmol's own release version, exposed via
// `pbsmol-cli --version`. Grounded on github.com/blang/semver/v4, shared by
// giuliop-AlgoPlonk, okx-gnark, and the operator-lifecycle-manager in the
// retrieval pack.
package version

import (
	"fmt"

	"github.com/blang/semver/v4"
)

// Current is parsed (not just string-literal'd) so a malformed version
// string fails loudly at init time rather than shipping silently.
var Current = semver.MustParse("0.1.0")

// String renders the tool's version banner.
func String() string {
	return fmt.Sprintf("pbsmol %s", Current.String())
}
