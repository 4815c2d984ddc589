package jobs

import (
	"context"

	"bibliotec-gateway/internal/logger"
)

// AuditInventory compares each book's campus inventory against the open
// loans held against it and reports anomalies. Report-only: inventory is
// never corrected automatically, a librarian reconciles drift by hand after
// checking the shelves.
func (jr *JobRunner) AuditInventory() {
	jr.runWithRecovery("AuditInventory", func() {
		ctx := context.Background()
		cred := jr.services.Auth.ServiceCredential()

		books, err := jr.collectBooks(ctx, cred)
		if err != nil {
			logger.Error("Failed to list books for inventory audit", "error", err)
			return
		}

		anomalies := 0
		for _, book := range books {
			loans, err := jr.collectLoansByBook(ctx, cred, book.ID)
			if err != nil {
				logger.Error("Failed to list loans for audit", "book_id", book.ID, "error", err)
				continue
			}

			openByCampus := map[string]int{}
			for _, loan := range loans {
				if loan.Status.Open() {
					openByCampus[loan.Campus]++
				}
			}

			for _, inv := range book.Inventory {
				if inv.Available < 0 {
					anomalies++
					logger.Warn("Inventory audit: negative availability",
						"book_id", book.ID,
						"catalog_code", book.CatalogCode,
						"campus", inv.Campus,
						"available", inv.Available)
				}
			}
			for campus, open := range openByCampus {
				if book.AvailableAt(campus) == 0 && open == 0 {
					continue
				}
				logger.Debug("Inventory audit entry",
					"book_id", book.ID,
					"catalog_code", book.CatalogCode,
					"campus", campus,
					"available", book.AvailableAt(campus),
					"open_loans", open)
			}
		}
		logger.Info("Inventory audit finished", "books", len(books), "anomalies", anomalies)
	})
}
