package stage

import (
	"fmt"
	"os"

	"recue/internal/services"
)

// RequireFile verifies that a stage input file exists on disk. On failure it
// returns a services.ErrValidation suitable for stage Execute methods.
func RequireFile(stageName, role, path string) error {
	if path == "" {
		return services.Wrap(
			services.ErrValidation, stageName, "check "+role,
			fmt.Sprintf("%s path not recorded on item", role), nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(
			services.ErrValidation, stageName, "check "+role,
			fmt.Sprintf("%s missing at %s", role, path), err)
	}
	if info.IsDir() {
		return services.Wrap(
			services.ErrValidation, stageName, "check "+role,
			fmt.Sprintf("%s at %s is a directory", role, path), nil)
	}
	return nil
}
