package cli

import (
	"fmt"
	"time"

	"github.com/farewatch/farewatch/internal/models"
	"github.com/farewatch/farewatch/internal/services"
)

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%.2f EUR", p)
}

// renderResults prints search results grouped by route. Flights are numbered
// continuously across groups so 'show <n>' can address any of them. Flights
// the user already subscribes to are marked with an asterisk.
func (a *App) renderResults(groups []services.RouteGroup) {
	total := 0
	for _, g := range groups {
		total += len(g.Flights)
	}
	if total == 0 {
		fmt.Fprintln(a.out, "No flights found for these criteria.")
		return
	}

	n := 0
	for _, g := range groups {
		fmt.Fprintf(a.out, "\n%s (%d flights)\n", g.Route, len(g.Flights))
		for _, f := range g.Flights {
			n++
			a.flatFlights = append(a.flatFlights, f)
			mark := " "
			if a.subs.IsSubscribed(f.ID) {
				mark = "*"
			}
			fmt.Fprintf(a.out, "%s %3d. %s  %-20s %10s\n",
				mark, n, formatDate(f.DepartureDate), a.search.AirlineName(f.AirlineCode), formatPrice(f.Price))
		}
	}
	fmt.Fprintf(a.out, "\n%d flights, * marks flights you subscribe to. Use 'show <n>' for details.\n", total)
}

// renderTrend prints the compressed price history, one point per line.
func (a *App) renderTrend(points []models.PricePoint) {
	if len(points) == 0 {
		fmt.Fprintln(a.out, "No price history recorded yet.")
		return
	}
	if len(points) == 1 {
		fmt.Fprintf(a.out, "Only one price recorded so far: %s on %s\n",
			formatPrice(points[0].Price), formatDate(points[0].Timestamp))
		return
	}
	fmt.Fprintln(a.out, "Price history:")
	for _, p := range points {
		fmt.Fprintf(a.out, "  %s  %10s\n", p.Timestamp.Format("2006-01-02 15:04"), formatPrice(p.Price))
	}
}

func (a *App) renderSubscriptions(items []models.EnrichedSubscription) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "You have no subscriptions.")
		return
	}
	for i, it := range items {
		state := "active"
		if !it.IsActive {
			state = "paused"
		}
		if it.FlightMissing {
			fmt.Fprintf(a.out, "%3d. flight %s (details unavailable)  target %s  %s\n",
				i+1, it.FlightID, formatPrice(it.TargetPrice), state)
			continue
		}
		fmt.Fprintf(a.out, "%3d. %s %s  %-20s now %s, target %s  %s\n",
			i+1, it.Route(), formatDate(it.DepartureDate), a.search.AirlineName(it.AirlineCode),
			formatPrice(it.CurrentPrice), formatPrice(it.TargetPrice), state)
	}
}

func (a *App) renderDetail(view *services.DetailView) {
	f := view.Flight
	fmt.Fprintf(a.out, "\nFlight %s  %s  %s\n", f.Route(), formatDate(f.DepartureDate), a.search.AirlineName(f.AirlineCode))
	fmt.Fprintf(a.out, "Current price: %s\n", formatPrice(f.Price))
	if f.MinPrice != nil && f.MaxPrice != nil {
		fmt.Fprintf(a.out, "Observed range: %s to %s\n", formatPrice(*f.MinPrice), formatPrice(*f.MaxPrice))
	}
	if f.BookingURL != "" {
		fmt.Fprintf(a.out, "Booking: %s\n", f.BookingURL)
	}

	if view.HistoryErr != nil {
		fmt.Fprintf(a.out, "Price history unavailable: %v\n", view.HistoryErr)
	} else {
		a.renderTrend(view.Trend())
	}

	switch {
	case view.LookupErr != nil:
		fmt.Fprintf(a.out, "Could not check your subscription: %v\n", view.LookupErr)
	case view.Existing != nil:
		state := "active"
		if !view.Existing.IsActive {
			state = "paused"
		}
		fmt.Fprintf(a.out, "You subscribe to this flight: target %s, %s\n",
			formatPrice(view.Existing.TargetPrice), state)
	default:
		fmt.Fprintln(a.out, "You do not subscribe to this flight. Use 'subscribe' to add an alert.")
	}
}
