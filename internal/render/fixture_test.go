package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/project"
)

func testContext(t *testing.T) *project.Context {
	t.Helper()
	c := project.NewContext()
	c.DocumentationRootPath = t.TempDir()
	return c
}

func calculateMethod() *model.DocMember {
	m := &model.DocMember{
		Name:          "Calculate",
		Kind:          model.MemberMethod,
		Accessibility: model.Public,
		ReturnType:    "int",
		Parameters: []*model.DocParameter{
			{Name: "x", Type: "int"},
			{Name: "y", Type: "int"},
		},
	}
	m.Signature = MemberSignature(m)
	return m
}

func sampleClass() *model.DocType {
	t := &model.DocType{
		Name:          "SampleClass",
		FullName:      "Sample.SampleClass",
		Namespace:     "Sample",
		AssemblyName:  "Sample",
		Kind:          model.KindClass,
		Accessibility: model.Public,
		Members:       []*model.DocMember{calculateMethod()},
	}
	t.Signature = TypeSignature(t)
	return t
}

func sampleAssembly() *model.DocAssembly {
	global := &model.DocType{
		Name:          "Loose",
		FullName:      "Loose",
		Namespace:     model.GlobalNamespace,
		Kind:          model.KindClass,
		Accessibility: model.Public,
	}
	global.Signature = TypeSignature(global)

	perms := &model.DocType{
		Name:          "Permissions",
		FullName:      "Sample.Permissions",
		Namespace:     "Sample",
		Kind:          model.KindEnum,
		Accessibility: model.Public,
		Enum: &model.EnumInfo{
			UnderlyingType: "int",
			IsFlags:        true,
			Values: []model.DocEnumValue{
				{Name: "None", Value: "0"},
				{Name: "Read", Value: "1"},
				{Name: "Write", Value: "2"},
				{Name: "Execute", Value: "4"},
				{Name: "Delete", Value: "8"},
				{Name: "All", Value: "15", Description: "Everything."},
				{Name: "Custom", Value: "10"},
			},
		},
	}
	perms.Signature = TypeSignature(perms)

	return &model.DocAssembly{
		Name:    "Sample",
		Version: "1.0.0",
		Namespaces: []*model.DocNamespace{
			{Name: model.GlobalNamespace, Types: []*model.DocType{global}},
			{Name: "Sample", Types: []*model.DocType{perms, sampleClass()}},
		},
	}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// listFiles returns every file below root as slash-separated relative paths.
func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	return files
}
