// Package cli реализует policygen: просмотр каталога шаблонов и рендер
// документа из командной строки без базы и сервера.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xela07ax/complitic/internal/templates"
)

// NewRootCmd собирает дерево команд. Каталог передается снаружи,
// чтобы тесты могли подставить свои фикстуры.
func NewRootCmd(catalog *templates.Store) *cobra.Command {
	root := &cobra.Command{
		Use:           "policygen",
		Short:         "Generate store policy documents",
		Long:          "Generate privacy, terms, cookie, refund and shipping policies from the built-in templates.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newListCmd(catalog))
	root.AddCommand(newShowCmd(catalog))
	root.AddCommand(newRenderCmd(catalog))
	return root
}

// Execute запускает CLI со встроенным каталогом.
func Execute() int {
	catalog, err := templates.LoadBuiltin()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	root := NewRootCmd(catalog)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func writeLine(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}
