package cli_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luy-todo/backend/internal/cli"
	"luy-todo/backend/internal/services"
	"luy-todo/backend/testutil"
)

type output struct {
	out bytes.Buffer
	err bytes.Buffer
}

func run(t *testing.T, env *testutil.TestEnv, jwtService *services.JWTService, args ...string) (int, *output) {
	t.Helper()
	o := &output{}
	code := cli.Run(args, cli.Options{
		Dispatcher:  env.Dispatcher,
		TodoService: env.TodoService,
		JWTService:  jwtService,
		Now:         func() time.Time { return testutil.FixedNow },
		Out:         &o.out,
		Err:         &o.err,
	})
	return code, o
}

func TestRun_Usage(t *testing.T) {
	env := testutil.SetupTestDispatcher(t)

	cases := []struct {
		name string
		args []string
		code int
	}{
		{name: "no args", args: nil, code: 2},
		{name: "help", args: []string{"help"}, code: 0},
		{name: "unknown", args: []string{"frobnicate"}, code: 2},
		{name: "add without description", args: []string{"add", "only title"}, code: 2},
		{name: "rm without id", args: []string{"rm"}, code: 2},
		{name: "rm non-numeric", args: []string{"rm", "two"}, code: 2},
		{name: "token without subject", args: []string{"token"}, code: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := run(t, env, nil, tc.args...)
			assert.Equal(t, tc.code, code)
		})
	}

	todos, err := env.TodoRepo.Load()
	require.NoError(t, err)
	assert.Len(t, todos, 3, "usage errors must not touch the store")
}

func TestRun_List(t *testing.T) {
	env := testutil.SetupTestDispatcher(t)

	code, o := run(t, env, nil, "ls")

	assert.Equal(t, 0, code, o.err.String())
	assert.Contains(t, o.out.String(), "Buy gift for Alice")
	assert.Contains(t, o.out.String(), "#3")
}

func TestRun_AddAndRemove(t *testing.T) {
	env := testutil.SetupTestDispatcher(t)

	code, o := run(t, env, nil, "add", "Water plants", "The fern looks thirsty.")
	require.Equal(t, 0, code, o.err.String())
	assert.Contains(t, o.out.String(), "added #4")

	todos, err := env.TodoRepo.Load()
	require.NoError(t, err)
	require.Len(t, todos, 4)
	assert.Equal(t, "Water plants", todos[3].Title)
	assert.True(t, todos[3].AddedOn.Equal(testutil.FixedNow))

	code, o = run(t, env, nil, "rm", "2")
	require.Equal(t, 0, code, o.err.String())

	todos, err = env.TodoRepo.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, testutil.IDs(todos))
}

func TestRun_Maintenance(t *testing.T) {
	env := testutil.SetupTestDispatcher(t)
	testutil.CreateTestTodo(t, env.Dispatcher, "extra", "extra")

	code, _ := run(t, env, nil, "clear")
	require.Equal(t, 0, code)
	_, exists, err := env.Storage.GetItem(env.TodoRepo.Key)
	require.NoError(t, err)
	assert.False(t, exists)

	code, _ = run(t, env, nil, "init")
	require.Equal(t, 0, code)
	todos, err := env.TodoRepo.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, testutil.IDs(todos))

	testutil.CreateTestTodo(t, env.Dispatcher, "extra", "extra")
	code, _ = run(t, env, nil, "reset")
	require.Equal(t, 0, code)
	todos, err = env.TodoRepo.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, testutil.IDs(todos))
}

func TestRun_StorageFailure(t *testing.T) {
	env := testutil.SetupTestDispatcher(t)
	require.NoError(t, env.Storage.SetItem(env.TodoRepo.Key, "{not json"))

	code, o := run(t, env, nil, "ls")

	assert.Equal(t, 1, code)
	assert.Contains(t, o.err.String(), "500")
}

func TestRun_Token(t *testing.T) {
	env := testutil.SetupTestDispatcher(t)

	t.Run("without secret", func(t *testing.T) {
		code, o := run(t, env, nil, "token", "alice")
		assert.Equal(t, 1, code)
		assert.Contains(t, o.err.String(), services.ErrJWTSecretNotSet.Error())
	})

	t.Run("with secret", func(t *testing.T) {
		jwtService, err := services.NewJWTService("test-secret")
		require.NoError(t, err)

		code, o := run(t, env, jwtService, "token", "alice")
		require.Equal(t, 0, code)

		claims, err := jwtService.ValidateToken(string(bytes.TrimSpace(o.out.Bytes())))
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
	})
}

func TestRun_SeedsEmptyStoreBeforeUse(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want []int
	}{
		{name: "add", args: []string{"add", "a", "b"}, want: []int{1, 2, 3, 4}},
		{name: "ls", args: []string{"ls"}, want: []int{1, 2, 3}},
		{name: "rm", args: []string{"rm", "1"}, want: []int{2, 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := testutil.SetupTestDispatcher(t)
			require.NoError(t, env.TodoRepo.Clear())

			code, o := run(t, env, nil, tc.args...)
			require.Equal(t, 0, code, o.err.String())

			todos, err := env.TodoRepo.Load()
			require.NoError(t, err)
			assert.Equal(t, tc.want, testutil.IDs(todos))
		})
	}

	t.Run("add reports id 4", func(t *testing.T) {
		env := testutil.SetupTestDispatcher(t)
		require.NoError(t, env.TodoRepo.Clear())

		_, o := run(t, env, nil, "add", "a", "b")
		assert.Contains(t, o.out.String(), "added #4")
	})

	t.Run("clear does not seed", func(t *testing.T) {
		env := testutil.SetupTestDispatcher(t)
		require.NoError(t, env.TodoRepo.Clear())

		code, _ := run(t, env, nil, "clear")
		require.Equal(t, 0, code)
		_, exists, err := env.Storage.GetItem(env.TodoRepo.Key)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestRun_ListWithQuery(t *testing.T) {
	env := testutil.SetupTestDispatcher(t)

	cases := []struct {
		name    string
		query   string
		shown   string
		present []string
		absent  []string
	}{
		{name: "title, upper case", query: "CAT", shown: "Shown 1 / Total 3", present: []string{"Wash the cat"}, absent: []string{"Buy gift for Alice", "Clean the kitchen"}},
		{name: "description only", query: "messy", shown: "Shown 1 / Total 3", present: []string{"Clean the kitchen"}, absent: []string{"Wash the cat"}},
		{name: "no match", query: "garage", shown: "Shown 0 / Total 3", present: []string{"(empty)"}, absent: []string{"Wash the cat"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, o := run(t, env, nil, "ls", tc.query)
			require.Equal(t, 0, code, o.err.String())

			out := o.out.String()
			assert.Contains(t, out, tc.shown)
			for _, s := range tc.present {
				assert.Contains(t, out, s)
			}
			for _, s := range tc.absent {
				assert.NotContains(t, out, s)
			}
		})
	}

	t.Run("too many arguments", func(t *testing.T) {
		code, _ := run(t, env, nil, "ls", "a", "b")
		assert.Equal(t, 2, code)
	})
}
