package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/farewatch/farewatch/internal/services"
)

// runSearch walks the user through building search criteria and renders the
// grouped results. Result numbering is remembered for the show command.
func (a *App) runSearch(ctx context.Context) {
	if err := a.search.LoadReferenceData(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not load airports and airlines: %v\n", err)
		return
	}

	dirPick, err := GetSelection(a.reader, "Direction:", []string{
		fmt.Sprintf("%s to %s", a.config.HomeCountry, a.config.AwayCountry),
		fmt.Sprintf("%s to %s", a.config.AwayCountry, a.config.HomeCountry),
	}, a.out)
	if err != nil {
		a.reportError(err)
		return
	}
	if len(dirPick) != 1 {
		fmt.Fprintln(a.out, "Pick exactly one direction")
		return
	}
	direction := services.DirectionOutbound
	if dirPick[0] == 1 {
		direction = services.DirectionInbound
	}

	routes := a.search.Routes(direction)
	if len(routes) == 0 {
		fmt.Fprintln(a.out, "No routes available, reference data may be incomplete")
		return
	}
	routePicks, err := GetSelection(a.reader, "Routes:", routes, a.out)
	if err != nil {
		a.reportError(err)
		return
	}
	picked := make([]string, 0, len(routePicks))
	for _, i := range routePicks {
		picked = append(picked, routes[i])
	}

	now := time.Now()
	defStart, defEnd := services.SearchWindow(now)
	start, err := GetDate(a.reader, "Start date", defStart, a.out)
	if err != nil {
		a.reportError(err)
		return
	}
	end, err := GetDate(a.reader, "End date", defEnd, a.out)
	if err != nil {
		a.reportError(err)
		return
	}

	airlines := a.search.Airlines()
	names := make([]string, 0, len(airlines))
	for _, al := range airlines {
		names = append(names, fmt.Sprintf("%s (%s)", al.Name, al.Code))
	}
	airlinePicks, err := GetSelection(a.reader, "Airlines (empty for all):", names, a.out)
	if err != nil {
		a.reportError(err)
		return
	}
	codes := make([]string, 0, len(airlinePicks))
	for _, i := range airlinePicks {
		codes = append(codes, airlines[i].Code)
	}

	criteria := services.CriteriaFromRoutes(picked, start, end, codes)
	groups, err := a.search.Search(ctx, criteria, now)
	if err != nil {
		a.reportError(err)
		return
	}

	a.flatFlights = a.flatFlights[:0]
	a.currentView = nil
	a.renderResults(groups)
}
