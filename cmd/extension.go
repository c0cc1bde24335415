package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/txingest"
)

const (
	EnvRulesFile = "TXI_RULES_FILE"
	EnvDB        = "TXI_DB"
	EnvVerbose   = "TXI_VERBOSE"
)

// ExtensionEnv returns the environment passed to extensions: the current one
// plus the resolved configuration.
func ExtensionEnv() []string {
	return append(os.Environ(),
		EnvRulesFile+"="+RulesFile(),
		EnvDB+"="+DBFile(),
		EnvVerbose+"="+strconv.FormatBool(IsVerbose()),
	)
}

// RunExtension attempts to find and execute an external txi-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "txi-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		txingest.Logger.Debug("no extension", "command", name, "err", err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = ExtensionEnv()

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
