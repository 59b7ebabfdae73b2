package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/storage"
)

// seed loads cart lines from an xlsx order summary into a profile's cart,
// e.g. to restore an exported cart or prepare a demo profile.
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <profile_id> <xlsx_file_path>")
	}

	profileID := os.Args[1]
	filePath := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if cfg.Storage.Driver == storage.DriverMemory || cfg.Storage.Driver == "" {
		log.Fatal("STORAGE_DRIVER is memory; seeded carts would be lost on exit")
	}

	ctx := context.Background()
	backend, closeStorage, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open storage:", err)
	}
	defer closeStorage()

	carts := service.NewCartService(repository.NewCartRepository(storage.NewProvider(backend)))

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer file.Close()

	lines, err := service.ReadCartSheet(file)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total cart lines to import: %d\n", len(lines))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for _, line := range lines {
		if _, err := carts.AddItem(ctx, profileID, line.ProductSnapshot, line.Quantity); err != nil {
			fmt.Printf("Skipping product %d (%s): %v\n", line.ID, line.Name, err)
			continue
		}
		imported++
	}

	summary, err := carts.GetSummary(ctx, profileID)
	if err != nil {
		log.Fatal("Failed to read back cart:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Lines imported: %d, cart items: %d, total: %s\n", imported, summary.ItemCount, summary.Total.StringFixed(2))
}
