// Package classify holds the fixed classification tables used while scanning:
// file extension to language, manifest dependency to framework, and the
// directory and file names that are never scanned.
package classify

import (
	"path"
	"strings"
)

// Language is a language label. Only the constants below ever appear in a summary.
type Language string

const (
	JavaScript Language = "JavaScript"
	TypeScript Language = "TypeScript"
	Python     Language = "Python"
	Go         Language = "Go"
	Rust       Language = "Rust"
	Java       Language = "Java"
	Kotlin     Language = "Kotlin"
	CSharp     Language = "C#"
	C          Language = "C"
	CPP        Language = "C++"
	Ruby       Language = "Ruby"
	PHP        Language = "PHP"
	Swift      Language = "Swift"
	Scala      Language = "Scala"
	Vue        Language = "Vue"
	Svelte     Language = "Svelte"
	HTML       Language = "HTML"
	CSS        Language = "CSS"
	SCSS       Language = "SCSS"
	SQL        Language = "SQL"
	Shell      Language = "Shell"
)

// Framework is a framework label derived from manifest dependencies.
type Framework string

const (
	React       Framework = "React"
	NextJS      Framework = "Next.js"
	VueJS       Framework = "Vue.js"
	Angular     Framework = "Angular"
	SvelteKit   Framework = "Svelte"
	Express     Framework = "Express"
	NestJS      Framework = "NestJS"
	Fastify     Framework = "Fastify"
	Vite        Framework = "Vite"
	Tailwind    Framework = "Tailwind CSS"
	Jest        Framework = "Jest"
	Vitest      Framework = "Vitest"
	Electron    Framework = "Electron"
	ReactNative Framework = "React Native"
)

// FrameworkRule maps a framework to the dependency names that indicate it.
type FrameworkRule struct {
	Framework  Framework
	Indicators []string
}

// Tables is the complete classification configuration. Scanners receive it at
// construction so tests can substitute smaller tables.
type Tables struct {
	Languages  map[string]Language
	Frameworks []FrameworkRule

	IgnoredDirs  []string
	IgnoredFiles []string

	// ImportantFiles and ImportantExtensions select the files whose content the
	// remote scanner fetches.
	ImportantFiles      []string
	ImportantExtensions []string

	ScriptExtensions []string
	PythonExtensions []string
}

// Default returns a fresh copy of the production tables.
func Default() *Tables {
	return &Tables{
		Languages: map[string]Language{
			"js":     JavaScript,
			"jsx":    JavaScript,
			"mjs":    JavaScript,
			"cjs":    JavaScript,
			"ts":     TypeScript,
			"tsx":    TypeScript,
			"py":     Python,
			"go":     Go,
			"rs":     Rust,
			"java":   Java,
			"kt":     Kotlin,
			"cs":     CSharp,
			"c":      C,
			"h":      C,
			"cpp":    CPP,
			"cc":     CPP,
			"hpp":    CPP,
			"rb":     Ruby,
			"php":    PHP,
			"swift":  Swift,
			"scala":  Scala,
			"vue":    Vue,
			"svelte": Svelte,
			"html":   HTML,
			"css":    CSS,
			"scss":   SCSS,
			"sql":    SQL,
			"sh":     Shell,
		},
		Frameworks: []FrameworkRule{
			{React, []string{"react", "react-dom"}},
			{NextJS, []string{"next"}},
			{VueJS, []string{"vue", "nuxt"}},
			{Angular, []string{"@angular/core"}},
			{SvelteKit, []string{"svelte", "@sveltejs/kit"}},
			{Express, []string{"express"}},
			{NestJS, []string{"@nestjs/core"}},
			{Fastify, []string{"fastify"}},
			{Vite, []string{"vite"}},
			{Tailwind, []string{"tailwindcss"}},
			{Jest, []string{"jest"}},
			{Vitest, []string{"vitest"}},
			{Electron, []string{"electron"}},
			{ReactNative, []string{"react-native"}},
		},
		IgnoredDirs: []string{
			"node_modules",
			".git",
			"dist",
			"build",
			".next",
			"coverage",
			"__pycache__",
			".venv",
			"venv",
			"vendor",
			"target",
			".idea",
			".vscode",
		},
		IgnoredFiles: []string{
			"package-lock.json",
			"yarn.lock",
			"pnpm-lock.yaml",
			".DS_Store",
			".env",
			".min.js",
			".min.css",
		},
		ImportantFiles: []string{
			"package.json",
			"requirements.txt",
			"Cargo.toml",
			"go.mod",
			".eslintrc",
			"tsconfig.json",
		},
		ImportantExtensions: []string{"ts", "tsx", "js", "jsx", "py", "go", "rs", "java"},
		ScriptExtensions:    []string{"ts", "tsx", "js", "jsx"},
		PythonExtensions:    []string{"py"},
	}
}

// Extension returns the lowercased text after the final dot of the last path
// segment, or "" when that segment has no dot.
func Extension(p string) string {
	base := path.Base(p)
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// LanguageFor returns the language label for ext.
func (t *Tables) LanguageFor(ext string) (Language, bool) {
	if ext == "" {
		return "", false
	}
	lang, ok := t.Languages[ext]
	return lang, ok
}

// IsIgnored reports whether p lies under an ignored directory or names an
// ignored file.
func (t *Tables) IsIgnored(p string) bool {
	for _, dir := range t.IgnoredDirs {
		if strings.Contains(p, "/"+dir+"/") || strings.HasPrefix(p, dir+"/") {
			return true
		}
	}
	for _, name := range t.IgnoredFiles {
		if strings.HasSuffix(p, name) {
			return true
		}
	}
	return false
}

// IsIgnoredDir reports whether a directory with the given base name is pruned
// from traversal.
func (t *Tables) IsIgnoredDir(name string) bool {
	for _, dir := range t.IgnoredDirs {
		if name == dir {
			return true
		}
	}
	return false
}

// IsImportant reports whether the remote scanner should fetch p's content.
// Size and fetch-count limits are checked by the caller.
func (t *Tables) IsImportant(p string) bool {
	for _, name := range t.ImportantFiles {
		if strings.HasSuffix(p, name) {
			return true
		}
	}
	return contains(t.ImportantExtensions, Extension(p))
}

// IsScript reports whether ext belongs to the TypeScript/JavaScript family.
func (t *Tables) IsScript(ext string) bool { return contains(t.ScriptExtensions, ext) }

// IsPython reports whether ext is a Python source extension.
func (t *Tables) IsPython(ext string) bool { return contains(t.PythonExtensions, ext) }

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
