package native_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mkhalal/c-playground/internal/config"
	"github.com/mkhalal/c-playground/internal/executor"
	"github.com/mkhalal/c-playground/internal/executor/native"
)

// requireToolchain skips the test when neither default compiler is installed.
func requireToolchain(t *testing.T) {
	t.Helper()
	for _, name := range []string{"gcc", "clang"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no C compiler installed")
}

func newExecutor(cfg config.Config) *native.Executor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return native.New(cfg, logger)
}

// leftoverWorkspaces counts playground temp dirs currently on disk.
func leftoverWorkspaces(t *testing.T) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "c-playground-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return len(matches)
}

func TestNativeExecutor(t *testing.T) {
	requireToolchain(t)

	cfg := config.Default()
	exe := newExecutor(cfg)

	t.Run("prints 42", func(t *testing.T) {
		res, err := exe.Execute(context.Background(), executor.Request{
			Code: "#include <stdio.h>\nint main(void) { printf(\"42\\n\"); return 0; }\n",
		})
		assert.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "42\n", res.Data.Output)
		assert.Equal(t, 0, res.Data.ExitCode)
		assert.False(t, res.Data.HasInput)
		assert.Regexp(t, regexp.MustCompile(`^\d+\.\d{2}s$`), res.Data.CompileTime)
		assert.Regexp(t, regexp.MustCompile(`^\d+\.\d{2}s$`), res.Data.RunTime)
		assert.Regexp(t, regexp.MustCompile(`^\d+\.\d{2}s$`), res.Data.TotalTime)
		assert.Empty(t, res.ErrorType)
	})

	t.Run("syntax error on line 3", func(t *testing.T) {
		res, err := exe.Execute(context.Background(), executor.Request{
			Code: "#include <stdio.h>\nint main(void) {\n    int x = ;\n    return 0;\n}\n",
		})
		assert.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, executor.ErrorCompile, res.ErrorType)
		assert.Equal(t, []int{3}, res.ErrorLines)
		assert.NotEmpty(t, res.FirstError)
		assert.Equal(t, res.FirstError, res.Message)
		assert.Contains(t, res.Details, "main.c:3")
	})

	t.Run("stdin is delivered", func(t *testing.T) {
		res, err := exe.Execute(context.Background(), executor.Request{
			Code: "#include <stdio.h>\nint main(void) {\n" +
				"    char buf[64];\n" +
				"    if (fgets(buf, sizeof buf, stdin)) printf(\"got %s\", buf);\n" +
				"    return 0;\n}\n",
			Input: "hello\n",
		})
		assert.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "got hello\n", res.Data.Output)
		assert.True(t, res.Data.HasInput)
	})

	t.Run("reading without stdin sees EOF", func(t *testing.T) {
		res, err := exe.Execute(context.Background(), executor.Request{
			Code: "#include <stdio.h>\nint main(void) {\n" +
				"    char buf[64];\n" +
				"    if (fgets(buf, sizeof buf, stdin)) printf(\"got %s\", buf);\n" +
				"    return 0;\n}\n",
		})
		assert.NoError(t, err)
		assert.True(t, res.Success, "a read with no input must see EOF, not hang: %+v", res)
		assert.Equal(t, "", res.Data.Output)
		assert.False(t, res.Data.HasInput)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		res, err := exe.Execute(context.Background(), executor.Request{
			Code: "int main(void) { return 7; }\n",
		})
		assert.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, executor.ErrorRuntime, res.ErrorType)
		if assert.NotNil(t, res.ExitCode) {
			assert.Equal(t, 7, *res.ExitCode)
		}
	})

	t.Run("division by zero", func(t *testing.T) {
		res, err := exe.Execute(context.Background(), executor.Request{
			Code: "#include <stdio.h>\nint main(void) {\n" +
				"    int d = 0;\n" +
				"    printf(\"%d\\n\", 10 / d);\n" +
				"    return 0;\n}\n",
		})
		assert.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, executor.ErrorRuntime, res.ErrorType)
		assert.Contains(t, res.Message, "division")
	})

	t.Run("segfault", func(t *testing.T) {
		res, err := exe.Execute(context.Background(), executor.Request{
			Code: "int main(void) { int *p = 0; return *p; }\n",
		})
		assert.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, executor.ErrorRuntime, res.ErrorType)
		assert.Contains(t, res.Message, "memory")
	})
}

func TestNativeExecutor_RunTimeout(t *testing.T) {
	requireToolchain(t)

	cfg := config.Default()
	cfg.RunTimeout = 300 * time.Millisecond
	exe := newExecutor(cfg)

	res, err := exe.Execute(context.Background(), executor.Request{
		Code: "int main(void) { for (;;) {} }\n",
	})
	assert.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, executor.ErrorRunTimeout, res.ErrorType)
	assert.Nil(t, res.ExitCode)
}

func TestNativeExecutor_OutputLimit(t *testing.T) {
	requireToolchain(t)

	cfg := config.Default()
	cfg.MaxOutputBytes = 4096
	exe := newExecutor(cfg)

	res, err := exe.Execute(context.Background(), executor.Request{
		Code: "#include <stdio.h>\nint main(void) {\n" +
			"    for (;;) puts(\"xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx\");\n}\n",
	})
	assert.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, executor.ErrorOutputLimit, res.ErrorType)
	assert.LessOrEqual(t, len(res.Details), 4096)
}

func TestNativeExecutor_CompileTimeout(t *testing.T) {
	requireToolchain(t)

	cfg := config.Default()
	cfg.CompileTimeout = 1 * time.Millisecond
	exe := newExecutor(cfg)

	res, err := exe.Execute(context.Background(), executor.Request{
		Code: "int main(void) { return 0; }\n",
	})
	assert.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, executor.ErrorCompileTimeout, res.ErrorType)
}

func TestNativeExecutor_OverrideFallsBack(t *testing.T) {
	requireToolchain(t)

	cfg := config.Default()
	cfg.Compiler = "definitely-not-a-real-compiler-xyz"
	exe := newExecutor(cfg)

	res, err := exe.Execute(context.Background(), executor.Request{
		Code: "#include <stdio.h>\nint main(void) { printf(\"ok\\n\"); return 0; }\n",
	})
	assert.NoError(t, err)
	assert.True(t, res.Success, "a missing override must fall through to the default candidates")
	assert.Equal(t, "ok\n", res.Data.Output)
}

func TestNativeExecutor_NoToolchain(t *testing.T) {
	t.Setenv("PATH", "/nonexistent")

	exe := newExecutor(config.Default())
	res, err := exe.Execute(context.Background(), executor.Request{
		Code: "int main(void) { return 0; }\n",
	})
	assert.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, executor.ErrorPlatform, res.ErrorType)
	assert.Contains(t, res.Message, "no usable C compiler")
}

func TestNativeExecutor_ConcurrentInvocations(t *testing.T) {
	requireToolchain(t)

	exe := newExecutor(config.Default())
	programs := map[string]string{
		"alpha\n": "#include <stdio.h>\nint main(void) { printf(\"alpha\\n\"); return 0; }\n",
		"beta\n":  "#include <stdio.h>\nint main(void) { printf(\"beta\\n\"); return 0; }\n",
	}

	var wg sync.WaitGroup
	results := make(map[string]*executor.RunResult, len(programs))
	var mu sync.Mutex

	for want, code := range programs {
		wg.Add(1)
		go func(want, code string) {
			defer wg.Done()
			res, err := exe.Execute(context.Background(), executor.Request{Code: code})
			assert.NoError(t, err)
			mu.Lock()
			results[want] = res
			mu.Unlock()
		}(want, code)
	}
	wg.Wait()

	for want, res := range results {
		if assert.True(t, res.Success, "program for %q failed: %+v", want, res) {
			assert.Equal(t, want, res.Data.Output)
		}
	}
}

func TestNativeExecutor_WorkspaceAlwaysRemoved(t *testing.T) {
	requireToolchain(t)

	before := leftoverWorkspaces(t)

	cfg := config.Default()
	cfg.RunTimeout = 300 * time.Millisecond
	exe := newExecutor(cfg)

	submissions := []executor.Request{
		{Code: "#include <stdio.h>\nint main(void) { printf(\"fine\\n\"); return 0; }\n"},
		{Code: "int main(void) { broken }\n"},
		{Code: "int main(void) { for (;;) {} }\n"},
		{Code: "int main(void) { int *p = 0; return *p; }\n"},
	}
	for _, req := range submissions {
		_, err := exe.Execute(context.Background(), req)
		assert.NoError(t, err)
	}

	assert.Equal(t, before, leftoverWorkspaces(t),
		"every invocation must delete its workspace")
}
