package providertest

import (
	"github.com/ruffel/clitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	runExitCode    = 13
	missingProgram = "clitest-contract-no-such-binary"
)

func errorContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryErrors,
			Name:        "run-nonzero-is-not-an-error",
			Description: "A non-zero exit is reported in Result.Status with a nil error",
			Run: func(t T, env clitest.Environment) {
				res, err := env.Run(t.Context(), shell(env, "exit 13", "exit 13"))
				require.NoError(t, err)
				require.NotNil(t, res)

				assert.Equal(t, runExitCode, res.Status.Code)
				assert.False(t, res.Status.Success())
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "missing-binary-fails-to-spawn",
			Description: "A binary that cannot be found is an error from Run, wrapped as *clitest.SpawnError by the executor",
			Run: func(t T, env clitest.Environment) {
				_, err := env.Run(t.Context(), clitest.NewCommand(missingProgram))
				require.Error(t, err)

				_, err = clitest.NewExecutor(env).RunBuffered(t.Context(), clitest.NewCommand(missingProgram))
				require.ErrorIs(t, err, clitest.ErrSpawn)

				var spawnErr *clitest.SpawnError
				require.ErrorAs(t, err, &spawnErr)
				assert.Equal(t, missingProgram, spawnErr.Command.Cmd)
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "empty-binary-rejected",
			Description: "An empty binary is rejected before spawning",
			Run: func(t T, env clitest.Environment) {
				_, err := clitest.NewExecutor(env).RunBuffered(t.Context(), &clitest.Command{})
				require.ErrorIs(t, err, clitest.ErrInvalidArgument)
			},
		},
	}
}
