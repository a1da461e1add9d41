package providertest

import (
	"github.com/ruffel/clitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func systemContracts() []TestCase {
	return []TestCase{
		{
			Category: CategorySystem,
			Name:     "lookpath",
			Run: func(t T, env clitest.Environment) {
				exec := clitest.NewExecutor(env)

				path, err := exec.LookPath(t.Context(), env.TargetOS().ShellProgram()[0])

				require.NoError(t, err)
				assert.NotEmpty(t, path)
			},
		},
	}
}
