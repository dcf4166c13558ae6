package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"library-records/config"
	"library-records/library"
)

func main() {
	var (
		dbPath string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "import_books --file books.csv",
		Short: "Import a CSV of title,author rows into the library database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.SetOutput(io.Discard)

			config.LoadEnvFiles()
			cfg := config.NewConfig()
			if cmd.Flags().Changed("db") {
				cfg.Database.Path = dbPath
			}
			return importBooks(cfg.Database.Path, file)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", config.DefaultDatabasePath, "path to the SQLite database file")
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file with title,author rows (required)")
	_ = cmd.MarkFlagRequired("file")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func importBooks(dbPath, file string) error {
	manager, err := library.NewLibraryManager(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer manager.Close()

	fmt.Printf("Importing books from %s...\n", file)
	res, err := manager.ImportCatalogFromFile(file)
	if err != nil {
		return err
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Books imported:  %d\n", len(res.Books))
	fmt.Printf("Authors created: %d\n", res.AuthorsCreated)
	fmt.Printf("Rows skipped:    %d\n", res.Skipped)

	if len(res.Books) == 0 {
		return nil
	}

	books, err := manager.GetAllBooks()
	if err != nil {
		return fmt.Errorf("retrieving books: %w", err)
	}
	fmt.Println("\nCatalogue:")
	fmt.Printf("%-5s %-50s %-30s\n", "ID", "Title", "Author")
	fmt.Println(strings.Repeat("-", 87))
	for _, book := range books {
		fmt.Printf("%-5d %-50s %-30s\n", book.ID, truncateString(book.Title, 50), truncateString(book.AuthorName, 30))
	}
	return nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
