package providertest

import (
	"strings"

	"github.com/ruffel/clitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coreContracts() []TestCase {
	return []TestCase{
		{
			Category: CategoryCore,
			Name:     "simple-echo",
			Run: func(t T, env clitest.Environment) {
				out, err := clitest.NewExecutor(env).RunBuffered(t.Context(), clitest.NewCommand("echo", "hello"))
				require.NoError(t, err)
				require.NotNil(t, out)

				assert.Equal(t, "hello", strings.TrimSpace(out.StdoutString()))
				assert.True(t, out.Status.Success())
			},
		},
		{
			Category:    CategoryCore,
			Name:        "stderr-capture",
			Description: "Stdout and stderr are captured separately and in full",
			Run: func(t T, env clitest.Environment) {
				cmd := shell(env, "echo out; echo err >&2", "echo out; [Console]::Error.WriteLine('err')")

				out, err := clitest.NewExecutor(env).RunBuffered(t.Context(), cmd)
				require.NoError(t, err)

				assert.Equal(t, "out", strings.TrimSpace(out.StdoutString()))
				assert.Equal(t, "err", strings.TrimSpace(out.StderrString()))
			},
		},
		{
			Category:    CategoryCore,
			Name:        "env-override",
			Description: "Env entries are visible to the child",
			Run: func(t T, env clitest.Environment) {
				cmd := shell(env, "echo $CLITEST_CONTRACT", "echo $env:CLITEST_CONTRACT")
				cmd.Env = []string{"CLITEST_CONTRACT=contract-value"}

				out, err := clitest.NewExecutor(env).RunBuffered(t.Context(), cmd)
				require.NoError(t, err)

				assert.Equal(t, "contract-value", strings.TrimSpace(out.StdoutString()))
			},
		},
		{
			Category:    CategoryCore,
			Name:        "env-inherited",
			Description: "Overrides are added to the inherited environment, not substituted for it",
			Run: func(t T, env clitest.Environment) {
				cmd := shell(env, "echo $PATH", "echo $env:PATH")
				cmd.Env = []string{"CLITEST_CONTRACT=1"}

				out, err := clitest.NewExecutor(env).RunBuffered(t.Context(), cmd)
				require.NoError(t, err)

				assert.NotEmpty(t, strings.TrimSpace(out.StdoutString()))
			},
		},
		{
			Category:    CategoryCore,
			Name:        "env-last-wins",
			Description: "A later entry for the same key overrides an earlier one",
			Run: func(t T, env clitest.Environment) {
				cmd := shell(env, "echo $CLITEST_CONTRACT", "echo $env:CLITEST_CONTRACT")
				cmd.Env = []string{"CLITEST_CONTRACT=first", "CLITEST_CONTRACT=second"}

				out, err := clitest.NewExecutor(env).RunBuffered(t.Context(), cmd)
				require.NoError(t, err)

				assert.Equal(t, "second", strings.TrimSpace(out.StdoutString()))
			},
		},
	}
}
