// Command chefnote is a terminal shell for the ChefNote client core. It
// drives the same store / router / coordinator state machine the mobile web
// UI runs, against a running chefnote server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/qianyuchang/chefnote/client/api"
	"github.com/qianyuchang/chefnote/client/coordinator"
	"github.com/qianyuchang/chefnote/client/notify"
	"github.com/qianyuchang/chefnote/client/presenter"
	"github.com/qianyuchang/chefnote/client/router"
	"github.com/qianyuchang/chefnote/client/store"
	"github.com/qianyuchang/chefnote/config"
	"github.com/qianyuchang/chefnote/llm"
	"github.com/qianyuchang/chefnote/logger"
	"github.com/qianyuchang/chefnote/models"
)

type shell struct {
	api     *api.Client
	store   *store.Store
	loc     *router.MemoryLocation
	router  *router.Router
	coord   *coordinator.Coordinator
	present *presenter.Presenter
	in      *bufio.Reader
}

func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system env vars")
	}

	serverURL := config.GetEnv("CHEFNOTE_SERVER", "http://localhost:8080")
	apiKey := config.GetEnv("CHEFNOTE_API_KEY", "")
	deepLink := ""
	if len(os.Args) > 1 {
		deepLink = os.Args[1]
	}

	client := api.New(serverURL, apiKey)
	st := store.New()
	loc := router.NewMemoryLocation(deepLink)
	rt := router.New(loc, st)

	channel := notify.New(0)
	channel.SetListener(func(n *notify.Notification) {
		if n != nil {
			fmt.Printf("  [%s] %s\n", n.Severity, n.Message)
		}
	})

	coord := coordinator.New(client, st, rt, channel)

	s := &shell{
		api:     client,
		store:   st,
		loc:     loc,
		router:  rt,
		coord:   coord,
		present: presenter.New(config.GetEnv("REDUCED_MOTION", "") != ""),
		in:      bufio.NewReader(os.Stdin),
	}

	ctx := context.Background()

	// Resolve whatever token we started with, then load and resolve again so
	// a deep link gets its retry against real data.
	rt.Resolve(router.Forward)
	if err := s.load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load from server:", err)
		os.Exit(1)
	}
	rt.Resolve(router.Forward)

	s.run(ctx)
}

// load fetches recipes, categories and settings in parallel and installs
// them into the store in one step.
func (s *shell) load(ctx context.Context) error {
	var (
		recipes    []models.RecipeData
		categories []string
		settings   *models.SettingsData
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recipes, err = s.api.ListRecipes(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.api.ListCategories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.api.GetSettings(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.store.SetAll(recipes, categories, *settings)
	return nil
}

func (s *shell) run(ctx context.Context) {
	fmt.Println("ChefNote. Type 'help' for commands, 'quit' to exit.")
	for {
		s.render()
		fmt.Print("> ")
		line, err := s.in.ReadString('\n')
		if err != nil {
			return
		}
		if !s.dispatch(ctx, strings.TrimSpace(line)) {
			return
		}
	}
}

func (s *shell) render() {
	view := s.router.View()
	entity := s.router.Selected()
	t := s.present.Transition(s.router.Direction())

	fmt.Printf("\n== %s ==", presenter.ViewKey(view, entity))
	if !t.Instant {
		fmt.Printf(" (in from %s, out to %s)", t.EnterFrom, t.ExitTo)
	}
	fmt.Println()

	switch view {
	case router.ViewHome:
		for i, r := range s.store.Recipes() {
			fmt.Printf("%3d. %s  [%s]  proficiency %d/5\n", i+1, r.Title, r.Category, r.Proficiency)
		}
	case router.ViewRecipeDetail:
		s.renderDetail(entity)
	case router.ViewAddRecipe:
		if entity != nil {
			fmt.Printf("editing %q -- 'save' re-submits, 'back' discards\n", entity.Title)
		} else {
			fmt.Println("new recipe -- 'save' starts the form")
		}
	case router.ViewOrderMode:
		fmt.Println("order mode -- 'theme [hint]' plans a menu from your recipes")
	case router.ViewCategoryManager:
		for i, name := range s.store.Categories() {
			fmt.Printf("%3d. %s\n", i+1, name)
		}
	case router.ViewSettings:
		st := s.store.Settings()
		fmt.Printf("aiModel=%q imageModel=%q\n", st.AIModel, st.ImageModel)
	}
}

func (s *shell) renderDetail(r *models.RecipeData) {
	if r == nil {
		return
	}
	fmt.Printf("%s  [%s]  proficiency %d/5\n", r.Title, r.Category, r.Proficiency)
	if r.SourceLink != "" {
		fmt.Println("source:", r.SourceLink)
	}
	fmt.Println("ingredients:")
	for _, ing := range r.Ingredients {
		fmt.Printf("  - %s: %s\n", ing.Name, ing.Amount)
	}
	fmt.Println("steps:")
	for i, step := range r.Steps {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
	if len(r.Logs) > 0 {
		fmt.Println("cooking logs:")
		for _, l := range r.Logs {
			fmt.Printf("  %s  %s\n", l.Date.Format("2006-01-02"), l.Note)
		}
	}
}

// dispatch handles one command. Returns false to quit.
func (s *shell) dispatch(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	switch cmd {
	case "quit", "exit":
		return false
	case "help":
		fmt.Println("open N | add | save | edit | delete | log NOTE | order | theme [HINT] | categories | rename OLD NEW | settings | model NAME | back")
	case "":
	case "open":
		s.open(rest)
	case "back":
		if s.loc.Back() {
			s.router.Resolve(router.Backward)
		}
	case "add":
		s.router.Navigate(router.ViewAddRecipe, router.Forward, nil)
	case "save":
		s.save(ctx)
	case "edit":
		if entity := s.router.Selected(); entity != nil {
			s.router.Navigate(router.ViewAddRecipe, router.Forward, entity)
		}
	case "delete":
		if entity := s.router.Selected(); entity != nil {
			if err := s.coord.DeleteRecipe(ctx, entity.ID); err != nil {
				fmt.Println("  !", err)
			}
		}
	case "log":
		if entity := s.router.Selected(); entity != nil {
			if err := s.coord.AppendLog(ctx, entity.ID, models.CookingLog{Note: rest}); err != nil {
				fmt.Println("  !", err)
			}
		}
	case "order":
		s.router.Navigate(router.ViewOrderMode, router.Forward, nil)
	case "theme":
		s.theme(ctx, rest)
	case "categories":
		s.router.Navigate(router.ViewCategoryManager, router.Forward, nil)
	case "rename":
		oldName, newName, ok := strings.Cut(rest, " ")
		if !ok {
			fmt.Println("  usage: rename OLD NEW")
			return true
		}
		if err := s.coord.RenameCategory(ctx, oldName, newName); err != nil {
			fmt.Println("  !", err)
		}
	case "settings":
		s.router.Navigate(router.ViewSettings, router.Forward, nil)
	case "model":
		if err := s.coord.UpdateSettings(ctx, models.SettingsPatch{AIModel: &rest}); err != nil {
			fmt.Println("  !", err)
		}
	default:
		fmt.Println("  unknown command:", cmd)
	}
	return true
}

func (s *shell) open(arg string) {
	recipes := s.store.Recipes()
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(recipes) {
		s.router.Navigate(router.ViewRecipeDetail, router.Forward, &recipes[n-1])
		return
	}
	if r, ok := s.store.RecipeByID(arg); ok {
		s.router.Navigate(router.ViewRecipeDetail, router.Forward, &r)
		return
	}
	fmt.Println("  no such recipe:", arg)
}

// save runs the create/edit form. The draft lives here, not in the
// coordinator: a failed submit keeps it so the user can retry.
func (s *shell) save(ctx context.Context) {
	entity := s.router.Selected()

	draft := models.RecipeData{Proficiency: 1}
	if entity != nil {
		draft = *entity
	}

	draft.Title = s.prompt("title", draft.Title)
	draft.Category = s.prompt("category", draft.Category)
	if p, err := strconv.Atoi(s.prompt("proficiency 1-5", strconv.Itoa(draft.Proficiency))); err == nil {
		draft.Proficiency = p
	}
	draft.SourceLink = s.prompt("source link", draft.SourceLink)
	if raw := s.prompt("ingredients (name=amount, comma separated)", formatIngredients(draft.Ingredients)); raw != "" {
		draft.Ingredients = parseIngredients(raw)
	}
	if raw := s.prompt("steps (semicolon separated)", strings.Join(draft.Steps, "; ")); raw != "" {
		draft.Steps = splitTrim(raw, ";")
	}

	var err error
	if entity != nil {
		err = s.coord.UpdateRecipe(ctx, draft)
		if err == nil {
			s.router.Navigate(router.ViewRecipeDetail, router.Backward, &draft)
		}
	} else {
		err = s.coord.CreateRecipe(ctx, draft)
	}
	if err != nil {
		// Draft state stays in the form on failure; here the user just
		// reruns 'save'.
		fmt.Println("  !", err)
	}
}

func (s *shell) theme(ctx context.Context, hint string) {
	recipes := s.store.Recipes()
	dishes := make([]llm.MenuDish, len(recipes))
	for i, r := range recipes {
		dishes[i] = llm.MenuDish{ID: r.ID, Title: r.Title, Category: r.Category}
	}

	theme, err := s.api.ThemeMenu(ctx, dishes, hint, 4)
	if err != nil {
		fmt.Println("  !", err)
		return
	}

	fmt.Printf("  %s -- %s\n", theme.Theme, theme.Description)
	for _, id := range theme.Dishes {
		if r, ok := s.store.RecipeByID(id); ok {
			fmt.Println("   *", r.Title)
		}
	}
}

func (s *shell) prompt(label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := s.in.ReadString('\n')
	if err != nil {
		return current
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	return line
}

func parseIngredients(raw string) []models.Ingredient {
	var out []models.Ingredient
	for _, part := range splitTrim(raw, ",") {
		name, amount, _ := strings.Cut(part, "=")
		out = append(out, models.Ingredient{Name: strings.TrimSpace(name), Amount: strings.TrimSpace(amount)})
	}
	return out
}

func formatIngredients(ingredients []models.Ingredient) string {
	parts := make([]string, len(ingredients))
	for i, ing := range ingredients {
		parts[i] = ing.Name + "=" + ing.Amount
	}
	return strings.Join(parts, ", ")
}

func splitTrim(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
