package system

import (
	"errors"
	"fmt"

	"github.com/nwirth/stride/internal/cli"
	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/storage"
	"github.com/nwirth/stride/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: DB reachable
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	var goal models.Goal

	// Check 2: Active goal present
	if dbReachable {
		g, err := ctx.Store.GetActiveGoal()
		switch {
		case err == nil:
			goal = g
			fmt.Printf("✓ Active goal: OK (%s)\n", goal.Name)
		case errors.Is(err, storage.ErrNotFound):
			fmt.Printf("⚠ Active goal: WARNING\n")
			fmt.Printf("   No active goal. Run 'stride goal add' to create one.\n")
		default:
			fmt.Printf("❌ Active goal: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	} else {
		fmt.Printf("⊘ Active goal: SKIPPED (database not reachable)\n")
	}

	// Check 3: Goal interval valid
	if goal.ID != "" {
		if result := validation.ValidateGoalInterval(goal); result.HasConflicts() {
			fmt.Printf("❌ Goal interval: FAIL\n")
			fmt.Printf("   %s", result.FormatReport())
			hasError = true
		} else {
			fmt.Printf("✓ Goal interval: OK\n")
		}
	} else {
		fmt.Printf("⊘ Goal interval: SKIPPED (no active goal)\n")
	}

	// Check 4: Catalog valid
	if goal.ID != "" {
		catalog, err := ctx.Store.GetCatalog(goal.ID)
		if err != nil {
			fmt.Printf("❌ Routine catalog: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else if result := validation.ValidateCatalog(catalog); result.HasConflicts() {
			fmt.Printf("❌ Routine catalog: FAIL\n")
			fmt.Printf("   %s", result.FormatReport())
			hasError = true
		} else {
			fmt.Printf("✓ Routine catalog: OK (%d instances)\n", catalog.Len())
		}
	} else {
		fmt.Printf("⊘ Routine catalog: SKIPPED (no active goal)\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}
