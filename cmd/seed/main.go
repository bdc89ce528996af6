package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/stepup/stepup-backend/config"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/internal/app/service"
	"github.com/stepup/stepup-backend/internal/db"
)

func main() {
	yes := flag.Bool("y", false, "import without confirmation")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: go run cmd/seed/main.go [-y] <catalog.xlsx>")
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	gormDB, err := db.Initialize(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading catalog: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open catalog:", err)
	}
	products, skipped, err := service.ReadCatalog(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read catalog:", err)
	}

	fmt.Printf("Products to import: %d (skipped rows: %d)\n", len(products), skipped)
	if len(products) == 0 {
		return
	}

	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	productService := service.NewProductService(repository.NewProductRepository(gormDB))
	if err := productService.ImportProducts(context.Background(), products); err != nil {
		log.Fatal("Failed to import catalog:", err)
	}

	fmt.Printf("Import completed: %d products\n", len(products))
}
