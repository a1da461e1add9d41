package providertest

import (
	"github.com/ruffel/clitest"
	"github.com/stretchr/testify/require"
)

func environmentContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryEnvironment,
			Name:        "close-idempotent",
			Description: "Closing an environment multiple times is deterministic and non-fatal",
			Run: func(t T, env clitest.Environment) {
				require.NoError(t, env.Close())
				require.NoError(t, env.Close())
			},
		},
		{
			Category:    CategoryEnvironment,
			Name:        "close-post-run-fails",
			Description: "Run fails deterministically after environment close",
			Run: func(t T, env clitest.Environment) {
				require.NoError(t, env.Close())

				_, err := env.Run(t.Context(), shell(env, "echo clitest-contract", "echo clitest-contract"))
				require.ErrorIs(t, err, clitest.ErrEnvironmentClosed)
			},
		},
		{
			Category:    CategoryEnvironment,
			Name:        "close-post-lookpath-fails",
			Description: "LookPath fails deterministically after environment close",
			Run: func(t T, env clitest.Environment) {
				require.NoError(t, env.Close())

				_, err := env.LookPath(t.Context(), "echo")
				require.Error(t, err)
			},
		},
	}
}
