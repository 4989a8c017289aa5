// internal/core/domain/report.go
package domain

import "github.com/shopspring/decimal"

// TopClient is the client with the highest cumulative sale total.
type TopClient struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// TopProduct is the product with the highest cumulative quantity sold.
type TopProduct struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// ReportSummary is fully derived from the sale history and is recomputed
// wholesale after every commit. TopClient and TopProduct are nil when the
// history is empty.
type ReportSummary struct {
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalItems   int             `json:"total_items"`
	TopClient    *TopClient      `json:"top_client,omitempty"`
	TopProduct   *TopProduct     `json:"top_product,omitempty"`
}

// Summarize scans the full sale history and derives the aggregate report.
// Ties for top client and top product are broken by first encounter in
// history order: a later entry displaces the leader only with a strictly
// greater total. Client names display the latest-seen snapshot.
func Summarize(sales []Sale) ReportSummary {
	summary := ReportSummary{TotalRevenue: decimal.Zero}

	byClient := make(map[string]decimal.Decimal)
	clientNames := make(map[string]string)
	var clientOrder []string

	byProduct := make(map[string]int)
	productNames := make(map[string]string)
	var productOrder []string

	for _, s := range sales {
		summary.TotalSales++
		summary.TotalRevenue = summary.TotalRevenue.Add(s.Total)
		summary.TotalItems += s.ItemCount()

		if _, seen := byClient[s.ClientID]; !seen {
			clientOrder = append(clientOrder, s.ClientID)
			byClient[s.ClientID] = decimal.Zero
		}
		byClient[s.ClientID] = byClient[s.ClientID].Add(s.Total)
		clientNames[s.ClientID] = s.ClientName

		for _, it := range s.Items {
			if _, seen := byProduct[it.ProductID]; !seen {
				productOrder = append(productOrder, it.ProductID)
				productNames[it.ProductID] = it.Name
			}
			byProduct[it.ProductID] += it.Qty
		}
	}

	for _, id := range clientOrder {
		amount := byClient[id]
		if summary.TopClient == nil || amount.GreaterThan(summary.TopClient.Amount) {
			summary.TopClient = &TopClient{Name: clientNames[id], Amount: amount}
		}
	}

	for _, id := range productOrder {
		qty := byProduct[id]
		if summary.TopProduct == nil || qty > summary.TopProduct.Qty {
			summary.TopProduct = &TopProduct{Name: productNames[id], Qty: qty}
		}
	}

	return summary
}
