package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medmart-cli/internal/core/services"
)

// listFlags holds `services list` flags.
type listFlags struct {
	url         string
	last        bool
	page        int
	priceMin    int
	priceMax    int
	durationMin int
	durationMax int
	templates   []int
	sort        string
	json        bool
}

var list listFlags

var servicesCmd = &cobra.Command{
	Use:     "services",
	Aliases: []string{"svc"},
	Short:   "Browse and manage service listings",
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List services matching the filters",
	Long: `Lists one page of services.

The starting location is the current catalog location, the query string given
with --url, or the most recent location with --last. Filter flags are applied
on top of it; changing a filter resets the page to 1.

Examples:
  medmart services list --price-max 500 --template 1,3
  medmart services list --url '?custom_price=gte:10&page=2'
  medmart services list --last --page 3`,
	Args: cobra.NoArgs,
	RunE: runServicesList,
}

var servicesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a single listing",
	Args:  cobra.ExactArgs(1),
	RunE:  runServicesShow,
}

var servicesTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List service templates",
	Args:  cobra.NoArgs,
	RunE:  runServicesTemplates,
}

var servicesMineCmd = &cobra.Command{
	Use:               "mine",
	Short:             "List your own listings (doctors only)",
	Args:              cobra.NoArgs,
	PersistentPreRunE: requireDoctor,
	RunE:              runServicesMine,
}

var servicesSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update a listing (doctors only)",
	Long: `Creates a listing from a service template, or updates the listing given by --id.
Price, duration and description default to the template's values when omitted.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: requireDoctor,
	RunE:              runServicesSave,
}

var servicesDeleteCmd = &cobra.Command{
	Use:               "delete [id]",
	Short:             "Delete a listing (doctors only)",
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: requireDoctor,
	RunE:              runServicesDelete,
}

func init() {
	f := servicesListCmd.Flags()
	f.StringVar(&list.url, "url", "", "start from this query string")
	f.BoolVar(&list.last, "last", false, "start from the most recent location")
	f.IntVarP(&list.page, "page", "p", 0, "page to show (1-based)")
	f.IntVar(&list.priceMin, "price-min", 0, "minimum price")
	f.IntVar(&list.priceMax, "price-max", 0, "maximum price")
	f.IntVar(&list.durationMin, "duration-min", 0, "minimum duration in minutes")
	f.IntVar(&list.durationMax, "duration-max", 0, "maximum duration in minutes")
	f.IntSliceVarP(&list.templates, "template", "t", nil, "template ids (comma separated)")
	f.StringVar(&list.sort, "sort", "", "sort key")
	f.BoolVar(&list.json, "json", false, "output results as JSON")
	servicesListCmd.MarkFlagsMutuallyExclusive("url", "last")

	servicesSaveCmd.Flags().Int("id", 0, "listing to update")
	servicesSaveCmd.Flags().Int("template", 0, "service template id")
	servicesSaveCmd.Flags().Float64("price", 0, "custom price")
	servicesSaveCmd.Flags().Int("duration", 0, "custom duration in minutes")
	servicesSaveCmd.Flags().String("description", "", "custom description")
	_ = servicesSaveCmd.MarkFlagRequired("template")

	servicesTemplatesCmd.Flags().Bool("names", false, "only print ids and names")

	servicesCmd.AddCommand(servicesListCmd, servicesShowCmd, servicesTemplatesCmd,
		servicesMineCmd, servicesSaveCmd, servicesDeleteCmd)
	rootCmd.AddCommand(servicesCmd)
}

func runServicesList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil || routerService == nil {
		return errors.New("catalog service not configured")
	}
	location, err := startLocation(cmd)
	if err != nil {
		return err
	}

	params := applyFilterFlags(cmd, location)
	if list.page > 0 {
		params.SetInt(domain.ParamPage, list.page)
	}
	return showCatalog(cmd, params, list.json)
}

// showCatalog navigates to params, fetches that page and prints it with
// its page buttons.
func showCatalog(cmd *cobra.Command, params domain.QueryParameterSet, asJSON bool) error {
	ctx := commandContext(cmd)
	catalog := catalogSettings()

	params = params.Clone()
	params.SetInt(domain.ParamPerPage, catalog.PageSize)
	current := routerService.Navigate(ctx, params, driving.NavigateOptions{})

	page, err := catalogService.LoadPage(ctx, current)
	if err != nil {
		return userError("listing services", err)
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), page)
	}

	index := 0
	if p, ok := current.Int(domain.ParamPage); ok && p > 0 {
		index = p - 1
	}
	printServices(cmd, page.Documents)
	window := domain.ComputeWindow(catalog.WindowOptions(page.Count, index))
	cmd.Printf("\n%d services", page.Count)
	if line := FormatWindow(window); line != "" {
		cmd.Printf("  %s", line)
	}
	cmd.Println()
	cmd.Printf("Location: %s\n", current.String())
	return nil
}

// startLocation resolves --url, --last or the router's current location.
func startLocation(cmd *cobra.Command) (domain.QueryParameterSet, error) {
	switch {
	case list.url != "":
		return domain.ParseQueryString(list.url), nil
	case list.last:
		loc, err := routerService.Restore(commandContext(cmd))
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("no previous location recorded")
		}
		if err != nil {
			return nil, err
		}
		return loc, nil
	default:
		return routerService.Current(), nil
	}
}

// applyFilterFlags overlays changed filter flags on the location. Any filter
// change sends the user back to page 1, as a form edit would.
func applyFilterFlags(cmd *cobra.Command, location domain.QueryParameterSet) domain.QueryParameterSet {
	changed := false
	state := domain.ParseQueryParams(location)
	set := func(name string, target **int, v int) {
		if cmd.Flags().Changed(name) {
			*target = domain.IntPtr(v)
			changed = true
		}
	}
	set("price-min", &state.Price.Min, list.priceMin)
	set("price-max", &state.Price.Max, list.priceMax)
	set("duration-min", &state.Duration.Min, list.durationMin)
	set("duration-max", &state.Duration.Max, list.durationMax)
	if cmd.Flags().Changed("template") {
		state.TemplateIDs = domain.NormalizeTemplateIDs(list.templates)
		changed = true
	}
	if cmd.Flags().Changed("sort") {
		state.Sort = list.sort
		changed = true
	}

	if !changed {
		return location.Clone()
	}
	built := domain.BuildQueryParams(state)
	params := location.Merge(built)
	for _, key := range []string{domain.ParamCustomPrice, domain.ParamCustomDuration, domain.ParamSort} {
		if !built.Has(key) {
			params.Del(key)
		}
	}
	params.SetInt(domain.ParamPage, 1)
	return params
}

func runServicesShow(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	svc, err := catalogService.LoadByID(commandContext(cmd), id)
	if err != nil {
		return userError("loading service", err)
	}

	cmd.Printf("%s\n", svc.Title)
	cmd.Printf("  ID:       %d\n", svc.ID)
	cmd.Printf("  Doctor:   %s\n", svc.DoctorName)
	cmd.Printf("  Price:    %.2f\n", svc.Price)
	cmd.Printf("  Duration: %d min\n", svc.Duration)
	cmd.Printf("  Template: %d\n", svc.TemplateID)
	if svc.Description != "" {
		cmd.Println()
		cmd.Println(svc.Description)
	}
	return nil
}

func runServicesTemplates(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	ctx := commandContext(cmd)

	if onlyNames, _ := cmd.Flags().GetBool("names"); onlyNames {
		names, err := catalogService.TemplateNames(ctx)
		if err != nil {
			return userError("loading templates", err)
		}
		for _, n := range names {
			cmd.Printf("  [%d] %s\n", n.TemplateID, n.Name)
		}
		return nil
	}

	templates, err := catalogService.LoadTemplates(ctx)
	if err != nil {
		return userError("loading templates", err)
	}
	if len(templates) == 0 {
		cmd.Println("No templates found.")
		return nil
	}
	for _, t := range templates {
		cmd.Printf("  [%d] %s (%.2f, %d min)\n", t.TemplateID, t.Name, t.DefaultPrice, t.DefaultDuration)
	}
	return nil
}

func runServicesMine(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	user, err := authService.CurrentUser(ctx)
	if err != nil {
		return userError("loading account", err)
	}

	mine, err := catalogService.LoadByDoctor(ctx, user.ID)
	if err != nil {
		return userError("loading listings", err)
	}
	printServices(cmd, mine)
	return nil
}

func runServicesSave(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	id, _ := flags.GetInt("id")
	templateID, _ := flags.GetInt("template")

	form := domain.ServiceForm{TemplateID: templateID}
	if flags.Changed("price") {
		price, _ := flags.GetFloat64("price")
		form.CustomPrice = &price
	}
	if flags.Changed("duration") {
		duration, _ := flags.GetInt("duration")
		form.CustomDuration = &duration
	}
	form.CustomDescription, _ = flags.GetString("description")

	msg, err := catalogService.Save(commandContext(cmd), form, id)
	if err != nil {
		return userError("saving listing", err)
	}
	if msg == "" {
		msg = "Listing saved."
	}
	cmd.Println(msg)
	return nil
}

func runServicesDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := catalogService.DeleteItem(commandContext(cmd), id); err != nil {
		return userError("deleting listing", err)
	}
	cmd.Printf("Deleted listing %d.\n", id)
	return nil
}

func requireAuth(cmd *cobra.Command, _ []string) error {
	if err := services.RequireAuth(commandContext(cmd), authService); err != nil {
		return userError("", err)
	}
	return nil
}

func requireDoctor(cmd *cobra.Command, _ []string) error {
	if err := services.RequireDoctor(commandContext(cmd), authService); err != nil {
		return userError("", err)
	}
	return nil
}

func catalogSettings() domain.CatalogSettings {
	return settingsOrDefault().Catalog
}

func printServices(cmd *cobra.Command, docs []domain.DoctorService) {
	if len(docs) == 0 {
		cmd.Println("No services found.")
		return
	}
	for _, s := range docs {
		cmd.Printf("  [%d] %s - %s (%.2f, %d min)\n", s.ID, s.Title, s.DoctorName, s.Price, s.Duration)
	}
}

// FormatWindow renders page buttons as text, e.g. "1 … 4 [5] 6 … 10".
func FormatWindow(w domain.ButtonWindow) string {
	if w.Hidden {
		return ""
	}
	parts := make([]string, 0, len(w.Indices)+2)
	for i, idx := range w.Indices {
		label := strconv.Itoa(idx + 1)
		if idx == w.Active {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
		if i == 0 && w.LeadingEllipsis {
			parts = append(parts, "…")
		}
		if i == len(w.Indices)-2 && w.TrailingEllipsis {
			parts = append(parts, "…")
		}
	}
	return strings.Join(parts, " ")
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return nil
}
