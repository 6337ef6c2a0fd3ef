package interp_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havrydotdev/treelox/config"
	"github.com/havrydotdev/treelox/diag"
	interp "github.com/havrydotdev/treelox/interpreter"
)

func newSession(cfg config.Config) (*interp.Session, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return interp.New(cfg, &stdout, &stderr, nil), &stdout, &stderr
}

func TestRun(t *testing.T) {
	s, stdout, stderr := newSession(config.Default())

	require.NoError(t, s.Run("var a = 1; { var a = 2; print a; } print a;"))
	assert.Equal(t, "2\n1\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunCompileErrors(t *testing.T) {
	s, stdout, stderr := newSession(config.Default())

	err := s.Run("print 1;\nvar = 2;\nprint 3;\nprint (4;\n")
	require.ErrorIs(t, err, interp.ErrCompile)
	assert.Empty(t, stdout.String(), "nothing runs after a parse error")
	assert.Equal(t,
		"[line 2] Error: Expect variable name.\n[line 4] Error: Expect ')' after expression.\n",
		stderr.String())
}

func TestRunResolveError(t *testing.T) {
	s, stdout, stderr := newSession(config.Default())

	err := s.Run("print 0; { var a = 1; var a = 2; }")
	require.ErrorIs(t, err, interp.ErrCompile)
	assert.Empty(t, stdout.String())
	assert.Equal(t, "[line 1] Error: Already a variable with this name in this scope.\n", stderr.String())

	errs := s.Diagnostics().Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, diag.Resolve, errs[0].Stage)
}

func TestRunScanErrorStopsBeforeRunning(t *testing.T) {
	s, stdout, _ := newSession(config.Default())

	err := s.Run("print 1; @")
	require.ErrorIs(t, err, interp.ErrCompile)
	assert.Empty(t, stdout.String())
	assert.Equal(t, diag.Scan, s.Diagnostics().Errors()[0].Stage)
}

func TestRunRuntimeError(t *testing.T) {
	s, stdout, stderr := newSession(config.Default())

	err := s.Run("print 1;\nprint \"a\" + 1;")
	require.ErrorIs(t, err, interp.ErrRuntime)
	assert.Contains(t, err.Error(), "Operands must be two numbers or two strings.")
	assert.Equal(t, "1\n", stdout.String())
	assert.Equal(t, "[line 2] Error: Operands must be two numbers or two strings.\n", stderr.String())
	assert.True(t, s.Diagnostics().HadRuntimeError())
}

func TestTopLevelRedeclaration(t *testing.T) {
	s, stdout, _ := newSession(config.Default())

	require.NoError(t, s.Run("var a = 1; var a = 2; print a;"))
	assert.Equal(t, "2\n", stdout.String())
}

func TestRunLine(t *testing.T) {
	s, stdout, _ := newSession(config.Default())

	require.NoError(t, s.RunLine("fun makeAdder(n) { fun add(x) { return x + n; } return add; }"))
	require.ErrorIs(t, s.RunLine("print ;"), interp.ErrCompile)
	require.ErrorIs(t, s.RunLine("print missing;"), interp.ErrRuntime)
	require.NoError(t, s.RunLine("var add2 = makeAdder(2);"))
	require.NoError(t, s.RunLine("print add2(40);"))

	assert.Equal(t, "42\n", stdout.String())
	assert.False(t, s.Diagnostics().HadError())
}

func TestDivisionConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Division = config.DivisionError

	s, _, stderr := newSession(cfg)
	require.ErrorIs(t, s.Run("print 1 / 0;"), interp.ErrRuntime)
	assert.Equal(t, "[line 1] Error: Division by zero.\n", stderr.String())
}

func TestMaxCallDepthConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxCallDepth = 8

	s, _, stderr := newSession(cfg)
	require.ErrorIs(t, s.Run("fun f() { f(); }\nf();"), interp.ErrRuntime)
	assert.Equal(t, "[line 1] Error: Stack overflow.\n", stderr.String())
}

func TestDumpAST(t *testing.T) {
	cfg := config.Default()
	cfg.DumpAST = true

	s, stdout, _ := newSession(cfg)
	require.NoError(t, s.Run("print 1 + 2 * 3;"))
	assert.Equal(t, "(print (+ 1 (* 2 3)))\n7\n", stdout.String())
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.lox")
	require.NoError(t, os.WriteFile(path, []byte("for (var i = 0; i < 3; i = i + 1) print i;\n"), 0o644))

	s, stdout, _ := newSession(config.Default())
	require.NoError(t, s.RunFile(path))
	assert.Equal(t, "0\n1\n2\n", stdout.String())
}

func TestRunFileMissing(t *testing.T) {
	s, _, _ := newSession(config.Default())

	err := s.RunFile(filepath.Join(t.TempDir(), "missing.lox"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.Is(err, interp.ErrCompile))
}
