//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yourusername/console-landing/internal/app"
	"github.com/yourusername/console-landing/internal/diagnostic"
	"github.com/yourusername/console-landing/internal/model"
)

func main() {
	fmt.Println("=== console-landing Integration Test ===")
	fmt.Println("")

	// Test 1: Configuration
	fmt.Println("Test 1: Loading configuration...")
	config, err := app.LoadConfig("")
	if err != nil {
		fmt.Printf("❌ FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ PASSED: %d pages configured against %s\n", len(config.Pages), config.BaseURL)

	// Test 2: Application
	fmt.Println("\nTest 2: Creating application...")
	application, err := app.New(config, "integration")
	if err != nil {
		fmt.Printf("❌ FAILED: %v\n", err)
		os.Exit(1)
	}
	defer application.Shutdown()
	fmt.Println("✅ PASSED: Application created")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Test 3: Page access
	fmt.Println("\nTest 3: Listing every page...")
	for _, p := range config.Pages {
		status, err := diagnostic.CheckConsoleAccess(ctx, application.Client(), p.Name, p.Endpoint, p.StorageService)
		if err != nil {
			fmt.Printf("❌ FAILED: %v\n", err)
			os.Exit(1)
		}
		if !status.Allowed {
			fmt.Printf("⚠️  %s: %s\n", p.Name, status.Message())
			continue
		}
		fmt.Printf("✅ PASSED: %s returned %d items in %v\n", p.Name, status.Items, status.Latency)
	}

	// Test 4: Sorting the default page
	fmt.Println("\nTest 4: Sorting the default page...")
	page, _ := config.Page(config.DefaultPage)
	items, err := application.Client().FetchItems(ctx, page.Endpoint)
	if err != nil {
		fmt.Printf("❌ FAILED: %v\n", err)
		os.Exit(1)
	}
	sorted := model.SortItems(items, page.Sort)
	for i, item := range sorted {
		if i == 5 {
			fmt.Printf("   ... and %d more\n", len(sorted)-5)
			break
		}
		fmt.Printf("   %s\t%s\n", item.ID(), item.Text(model.FieldName))
	}
	fmt.Println("✅ PASSED: Default page sorted by", page.Sort)

	fmt.Println("\n=== All checks completed ===")
}
