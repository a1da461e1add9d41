package clitest_test

import (
	"context"
	"fmt"

	"github.com/ruffel/clitest"
	"github.com/ruffel/clitest/providers/mock"
	testifymock "github.com/stretchr/testify/mock"
)

func ExampleSetup_CommandLine() {
	s := clitest.New().
		WithCargoFlag("--release").
		WithCargoFlag("--quiet").
		WithCargoFlag("--release")

	fmt.Println(s.CommandLine("list --all"))
	// Output: cargo run --quiet --release -- list --all
}

func ExampleSetup_SetProgram() {
	s, err := clitest.New().SetProgram("bash -c")
	if err != nil {
		panic(err)
	}

	fmt.Println(s.Command("--version").String())
	// Output: bash -c "cargo run -- --version"
}

func ExampleSetup_Run_mock() {
	env := mock.NewLinux()

	env.On("Run", context.Background(), testifymock.Anything).
		Run(mock.Respond("", "error: unknown flag --frobnicate\n")).
		Return(&clitest.Result{Status: clitest.ExitStatus{Code: 2}}, nil)

	out, err := clitest.New(clitest.WithEnvironment(env)).Run("--frobnicate")
	if err != nil {
		panic(err)
	}

	if _, err := out.Success(); err != nil {
		fmt.Println(err)
	}
	// Output:
	// command failed with status: exit status: 2
	// stderr:
	// error: unknown flag --frobnicate
}
