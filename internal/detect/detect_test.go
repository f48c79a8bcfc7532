package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/classify"
)

func TestPatternDetector_TypeScriptAny(t *testing.T) {
	d := NewPatternDetector(classify.Default())

	issues := d.Detect("src/a.ts", "let x: any = 5;\n")

	require.Len(t, issues, 1)
	assert.Equal(t, "src/a.ts: 'any' type usage detected", issues[0])
}

func TestPatternDetector_ScriptChecks(t *testing.T) {
	d := NewPatternDetector(classify.Default())

	src := "var a = 1;\nif (a == 2) {}\nif (a === 3) {}\nconst b = a as any;\n"
	issues := d.Detect("lib/util.js", src)

	assert.Equal(t, []string{
		"lib/util.js: 'any' type usage detected",
		"lib/util.js: 'var' keyword usage detected (prefer let or const)",
		"lib/util.js: Loose equality (== or !=) usage detected",
	}, issues)
}

func TestPatternDetector_StrictEqualityIsClean(t *testing.T) {
	d := NewPatternDetector(classify.Default())

	issues := d.Detect("lib/ok.ts", "const a = 1;\nif (a === 1 && a !== 2) {}\nlet b: number = a;\n")
	assert.Empty(t, issues)
}

func TestPatternDetector_PythonChecks(t *testing.T) {
	d := NewPatternDetector(classify.Default())

	src := "from os import *\n\ntry:\n    run()\nexcept:\n    pass\n"
	issues := d.Detect("app/main.py", src)

	assert.Equal(t, []string{
		"app/main.py: Bare except clause detected",
		"app/main.py: Wildcard import detected",
	}, issues)
}

func TestPatternDetector_PythonChecksWithCRLF(t *testing.T) {
	d := NewPatternDetector(classify.Default())

	src := "from os import *\r\n\r\ntry:\r\n    run()\r\nexcept:\r\n    pass\r\n"
	issues := d.Detect("app/main.py", src)

	assert.Equal(t, []string{
		"app/main.py: Bare except clause detected",
		"app/main.py: Wildcard import detected",
	}, issues)
}

func TestPatternDetector_QualifiedExceptIsClean(t *testing.T) {
	d := NewPatternDetector(classify.Default())

	issues := d.Detect("app/main.py", "try:\n    run()\nexcept ValueError:\n    pass\n")
	assert.Empty(t, issues)
}

func TestPatternDetector_GenericCountsAndOrder(t *testing.T) {
	d := NewPatternDetector(classify.Default())

	src := `// TODO: tidy
console.error("a");
console.error("b");
console.log("c");
const apiKey = "sk-live-123456";
eval(code);
`
	issues := d.Detect("server/index.ts", src)

	assert.Equal(t, []string{
		"server/index.ts: Console error found (2 occurrences)",
		"server/index.ts: Console.log statement found (1 occurrences)",
		"server/index.ts: TODO/FIXME comment found (1 occurrences)",
		"server/index.ts: Possible hardcoded credential found (1 occurrences)",
		"server/index.ts: eval() usage found (1 occurrences)",
	}, issues)
}

func TestPatternDetector_LanguageChecksComeFirst(t *testing.T) {
	d := NewPatternDetector(classify.Default())

	issues := d.Detect("a.ts", "console.error(x)\nlet y: any;\n")

	require.Len(t, issues, 2)
	assert.Equal(t, "a.ts: 'any' type usage detected", issues[0])
	assert.Equal(t, "a.ts: Console error found (1 occurrences)", issues[1])
}

func TestPatternDetector_ScriptChecksSkippedForOtherLanguages(t *testing.T) {
	d := NewPatternDetector(classify.Default())

	issues := d.Detect("main.go", "var x interface{} = 1\nif a == b {}\n")
	assert.Empty(t, issues)
}

func TestPatternDetector_Deterministic(t *testing.T) {
	d := NewPatternDetector(classify.Default())
	src := "console.error(1)\nvar x = 1\n"

	assert.Equal(t, d.Detect("x.js", src), d.Detect("x.js", src))
}

func TestFrameworkDetector_React(t *testing.T) {
	d := NewFrameworkDetector(classify.Default())

	got := d.Detect(`{"dependencies": {"react": "^18.0.0"}}`)
	assert.Equal(t, []classify.Framework{classify.React}, got)
}

func TestFrameworkDetector_MergesDevDependencies(t *testing.T) {
	d := NewFrameworkDetector(classify.Default())

	got := d.Detect(`{
		"dependencies": {"next": "14.0.0", "react": "18.2.0"},
		"devDependencies": {"tailwindcss": "^3", "jest": "^29", "react": "18.2.0"}
	}`)
	assert.Equal(t, []classify.Framework{
		classify.React, classify.NextJS, classify.Tailwind, classify.Jest,
	}, got)
}

func TestFrameworkDetector_Malformed(t *testing.T) {
	d := NewFrameworkDetector(classify.Default())

	assert.Empty(t, d.Detect(`{"dependencies": {"react": `))
	assert.Empty(t, d.Detect(`["react"]`))
	assert.Empty(t, d.Detect(``))
	assert.Empty(t, d.Detect(`{"name": "pkg"}`))
}

func TestFrameworkDetector_NonObjectDependencyField(t *testing.T) {
	d := NewFrameworkDetector(classify.Default())

	got := d.Detect(`{"dependencies": "react", "devDependencies": {"vite": "5"}}`)
	assert.Equal(t, []classify.Framework{classify.Vite}, got)
}
