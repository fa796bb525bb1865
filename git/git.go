package git

import (
	"fmt"

	"github.com/daedaleanai/svcnames/linepipes"
)

// TopLevel returns the root of the git checkout containing dir. An error is returned when dir is not inside a
// checkout, or when the checkout is bare and therefore has no files to read.
func TopLevel(dir string) (string, error) {
	// See details about "working directory" in https://git-scm.com/docs/githooks
	bare, err := linepipes.Single(linepipes.Run(dir, "git", "rev-parse", "--is-bare-repository"))
	if err != nil {
		return "", fmt.Errorf("Failed to check Git repository type. Are you running svcnames in a Git repo?\n%s", err)
	}
	if bare == "true" {
		return "", fmt.Errorf("Bare repository.")
	}

	return linepipes.Single(linepipes.Run(dir, "git", "rev-parse", "--show-toplevel"))
}
