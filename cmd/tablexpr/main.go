package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/wbrown/tablexpr"
	"github.com/wbrown/tablexpr/internal/demoengine"
)

func main() {
	var dbPath string
	var schemaPath string
	var dataPath string
	var whereStr string
	var interactive bool
	var verbose bool
	var help bool

	flag.StringVar(&dbPath, "db", "", "database path")
	flag.StringVar(&schemaPath, "schema", "", "path to a JSON queryable schema")
	flag.StringVar(&dataPath, "data", "", "path to a JSON array of rows to load")
	flag.StringVar(&whereStr, "where", "", "compile and run a single where-expression, then exit")
	flag.BoolVar(&interactive, "i", false, "interactive mode")
	flag.BoolVar(&verbose, "verbose", false, "show the compiled condition and filters before results")
	flag.BoolVar(&help, "h", false, "show help")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [database_path]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Compiles pandas-style where-expressions into a pushdown condition\n")
		fmt.Fprintf(os.Stderr, "and residual filter, and runs them against a row store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Run the built-in demo\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i                               # Interactive mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -where 'A >= 10'                 # Run a single where-expression\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -schema schema.json -data rows.json -i\n", os.Args[0])
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	if dbPath == "" && flag.NArg() > 0 {
		dbPath = flag.Arg(0)
	}
	if dbPath == "" {
		var err error
		dbPath, err = os.MkdirTemp("", "tablexpr-*.db")
		if err != nil {
			log.Fatalf("failed to create scratch database: %v", err)
		}
	}

	store, schema, err := openStore(dbPath, schemaPath, dataPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer store.Close()

	formatter := newResultFormatter(os.Stdout, verbose)

	switch {
	case whereStr != "":
		formatter.runQuery(store, whereStr)
	case interactive:
		runInteractive(store, formatter)
	default:
		runDemo(store, schema, formatter)
	}
}

// openStore opens the row store at dbPath. When schemaPath/dataPath
// are both empty it falls back to the built-in demo schema and loads
// the demo dataset only if the store is still empty, so re-running
// against a populated store never duplicates rows.
func openStore(dbPath, schemaPath, dataPath string) (*demoengine.Store, map[string]*tablexpr.Queryable, error) {
	schema := demoSchema()
	if schemaPath != "" {
		var err error
		schema, err = loadSchema(schemaPath)
		if err != nil {
			return nil, nil, err
		}
	}

	store, err := demoengine.Open(dbPath, schema)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	empty, err := storeIsEmpty(store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	if !empty {
		return store, schema, nil
	}

	rows := demoRows()
	if dataPath != "" {
		rows, err = loadRows(dataPath)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
	}
	for _, row := range rows {
		if _, err := store.Insert(row); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to load row: %w", err)
		}
	}
	return store, schema, nil
}

func storeIsEmpty(store *demoengine.Store) (bool, error) {
	empty := true
	err := store.Each(func(id uint64, row map[string]any) error {
		empty = false
		return nil
	})
	return empty, err
}

// resultFormatter prints compiled Expr results as a markdown table,
// optionally preceded by the compiled condition and filter list.
type resultFormatter struct {
	out      *os.File
	verbose  bool
	useColor bool
}

func newResultFormatter(out *os.File, verbose bool) *resultFormatter {
	return &resultFormatter{out: out, verbose: verbose, useColor: isTerminal(out.Fd())}
}

func (rf *resultFormatter) colorize(text string, attr color.Attribute) string {
	if !rf.useColor {
		return text
	}
	return color.New(attr).Sprint(text)
}

func (rf *resultFormatter) runQuery(store *demoengine.Store, where string) {
	start := time.Now()
	e, err := tablexpr.NewExpr(where, store.Queryables(), nil)
	if err != nil {
		fmt.Fprintln(rf.out, rf.colorize(fmt.Sprintf("compile error: %v", err), color.FgRed))
		return
	}
	for _, w := range e.Warnings() {
		fmt.Fprintln(rf.out, rf.colorize("warning: "+w, color.FgYellow))
	}

	condition, filters, err := e.Evaluate()
	if err != nil {
		fmt.Fprintln(rf.out, rf.colorize(fmt.Sprintf("evaluate error: %v", err), color.FgRed))
		return
	}

	if rf.verbose {
		cond := condition
		if cond == "" {
			cond = "<null>"
		}
		fmt.Fprintln(rf.out, rf.colorize("condition: ", color.FgBlue)+cond)
		if len(filters) == 0 {
			fmt.Fprintln(rf.out, rf.colorize("filters:   ", color.FgBlue)+"<null>")
		} else {
			for _, f := range filters {
				fmt.Fprintln(rf.out, rf.colorize("filter:    ", color.FgBlue)+f.String())
			}
		}
	}

	rows, err := store.Scan(condition, filters)
	if err != nil {
		fmt.Fprintln(rf.out, rf.colorize(fmt.Sprintf("scan error: %v", err), color.FgRed))
		return
	}
	elapsed := time.Since(start)

	table := formatRows(rows)
	if rf.verbose {
		table = strings.TrimRight(table, "\n") + fmt.Sprintf(" (%.3fms)\n", float64(elapsed.Microseconds())/1000.0)
	}
	fmt.Fprint(rf.out, table)
}

func runDemo(store *demoengine.Store, schema map[string]*tablexpr.Queryable, rf *resultFormatter) {
	fmt.Fprintln(rf.out, "=== tablexpr Demo ===")
	fmt.Fprintln(rf.out)

	queries := []string{
		`index >= "2013-01-01"`,
		`string == "bar"`,
		`cat == "y"`,
		`A == [5, 10, 50]`,
		`~(A == [1,2,3])`,
	}

	for _, q := range queries {
		fmt.Fprintf(rf.out, "Query: %s\n", q)
		rf.runQuery(store, q)
		fmt.Fprintln(rf.out)
	}
}

func runInteractive(store *demoengine.Store, rf *resultFormatter) {
	fmt.Fprintln(rf.out, "=== tablexpr Interactive Mode ===")
	fmt.Fprintln(rf.out, "Enter a where-expression, or .exit to quit.")
	fmt.Fprintln(rf.out)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(rf.out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ".exit" {
			return
		}
		rf.runQuery(store, line)
	}
}

// isTerminal reports whether fd looks like stdout/stderr. The teacher
// CLI's same simplified heuristic: a real terminal-detection library
// is out of scope for a demo front end.
func isTerminal(fd uintptr) bool {
	return fd == uintptr(1) || fd == uintptr(2)
}
