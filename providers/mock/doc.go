// Package mock provides a controllable implementation of clitest.Environment
// for testing purposes.
//
// It lets tests assert on the exact Command a Setup produces without spawning
// anything, and script the output and exit status the Setup sees back.
//
// Usage:
//
//	env := mock.NewLinux()
//	env.On("Run", mock.Anything, mock.Anything).
//		Run(mock.Respond("ok\n", "")).
//		Return(&clitest.Result{}, nil)
//	out, _ := clitest.New(clitest.WithEnvironment(env)).Run("--version")
package mock
