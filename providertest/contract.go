// Package providertest provides a contract test suite for clitest environments.
package providertest

import "github.com/ruffel/clitest"

// AllContracts returns all test cases for the contract test suite.
func AllContracts() []TestCase {
	const initialCapacity = 16

	contracts := make([]TestCase, 0, initialCapacity)

	contracts = append(contracts, coreContracts()...)
	contracts = append(contracts, environmentContracts()...)
	contracts = append(contracts, systemContracts()...)
	contracts = append(contracts, errorContracts()...)

	return contracts
}

// shell builds a command running one of two scripts depending on the target OS.
func shell(env clitest.Environment, posix, windows string) *clitest.Command {
	script := posix
	if env.TargetOS() == clitest.OSWindows {
		script = windows
	}

	return clitest.Cmd(env.TargetOS().ShellProgram()...).Arg(script).Build()
}
