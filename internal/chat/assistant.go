package chat

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jaksia/easybook/internal/domain"
)

const fallbackReply = "Sorry, I couldn't process that right now. " +
	"Try asking 'What movies are available?' or 'Show theaters in Mumbai'."

var (
	movieKeywords  = []string{"movie", "book", "ticket", "show", "theater", "theatre", "cinema", "film"}
	actionKeywords = []string{"book", "reserve", "available", "timings", "shows", "theaters", "theatres"}

	cityPattern = regexp.MustCompile(`in ([a-zA-Z ]+)`)
)

// Assistant answers booking questions by pattern-matching user text against
// the catalog. Anything it cannot resolve from catalog data is forwarded to
// the answer generator.
type Assistant struct {
	movieRepo   domain.MovieRepository
	showRepo    domain.ShowRepository
	theaterRepo domain.TheaterRepository
	generator   domain.AnswerGenerator
	logger      *slog.Logger
}

func NewAssistant(
	movieRepo domain.MovieRepository,
	showRepo domain.ShowRepository,
	theaterRepo domain.TheaterRepository,
	generator domain.AnswerGenerator,
	logger *slog.Logger) *Assistant {

	return &Assistant{
		movieRepo:   movieRepo,
		showRepo:    showRepo,
		theaterRepo: theaterRepo,
		generator:   generator,
		logger:      logger,
	}
}

func (a *Assistant) Answer(ctx context.Context, input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "Ask me about movies, theaters, show timings, or how to book tickets!"
	}

	movies, err := a.movieRepo.GetAll(ctx)
	if err != nil {
		a.logger.Error("chat assistant failed to load catalog", "error", err)
		return fallbackReply
	}

	if a.isBookingQuery(input, movies) {
		reply, err := a.answerBookingQuery(ctx, input, movies)
		if err != nil {
			a.logger.Error("chat assistant failed to answer booking query", "error", err)
			return fallbackReply
		}

		return reply
	}

	reply, err := a.generator.GenerateAnswer(ctx, input)
	if err != nil {
		a.logger.Warn("answer generator failed", "error", err)
		return fallbackReply
	}

	return reply
}

func (a *Assistant) isBookingQuery(input string, movies []domain.Movie) bool {
	for _, kw := range movieKeywords {
		if strings.Contains(input, kw) {
			return true
		}
	}

	for _, kw := range actionKeywords {
		if strings.Contains(input, kw) {
			return true
		}
	}

	return matchMovie(input, movies) != nil
}

func (a *Assistant) answerBookingQuery(ctx context.Context, input string, movies []domain.Movie) (string, error) {
	switch {
	case strings.Contains(input, "movie") &&
		(strings.Contains(input, "list") || strings.Contains(input, "available") || strings.Contains(input, "show me")):
		return listMovies(movies), nil

	case strings.Contains(input, "theater") || strings.Contains(input, "theatre") || strings.Contains(input, "cinema"):
		return a.answerTheaterQuery(ctx, input, movies)

	case strings.Contains(input, "show") && (strings.Contains(input, "timing") || strings.Contains(input, "time")),
		strings.Contains(input, "shows for"):
		return a.answerTimingQuery(ctx, input, movies)

	case strings.Contains(input, "book") || strings.Contains(input, "reserve"):
		return "🎟️ To book tickets: pick a movie, choose a city and theater, select a show and your seats, " +
			"then pay to confirm. Ask 'What movies are available?' to get started.", nil
	}

	if movie := matchMovie(input, movies); movie != nil {
		return a.answerMovieDetails(ctx, movie)
	}

	return a.answerGeneralInfo(ctx)
}

func listMovies(movies []domain.Movie) string {
	if len(movies) == 0 {
		return "Sorry, no movies are currently available for booking."
	}

	var b strings.Builder
	b.WriteString("🎬 Here are the available movies:\n\n")

	for i, movie := range movies {
		if i == 10 {
			break
		}

		b.WriteString("• " + movie.Title)
		if movie.Genre != "" {
			fmt.Fprintf(&b, " (%s)", movie.Genre)
		}
		if movie.Duration > 0 {
			fmt.Fprintf(&b, " - %d mins", movie.Duration)
		}
		if movie.Language != "" {
			fmt.Fprintf(&b, " [%s]", movie.Language)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nTo book tickets, ask me: 'Show theaters for [movie name]' or 'Show me theaters in [city name]'!")

	return b.String()
}

func (a *Assistant) answerTheaterQuery(ctx context.Context, input string, movies []domain.Movie) (string, error) {
	movie := matchMovie(input, movies)

	match := cityPattern.FindStringSubmatch(input)
	if match == nil {
		if movie != nil {
			return a.theatersForMovie(ctx, movie)
		}

		return "Please specify the city name. For example: 'Show me theaters in Mumbai' " +
			"or 'Show theaters for [movie name] in Mumbai'", nil
	}

	city := strings.TrimSpace(match[1])

	if movie != nil {
		return a.theatersForMovieInCity(ctx, movie, city)
	}

	theaters, err := a.theaterRepo.GetByCity(ctx, city)
	if err != nil {
		return "", err
	}

	if len(theaters) == 0 {
		return fmt.Sprintf("Sorry, no theaters found in %s. Please check the city name or try a different location.", city), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎭 Theaters in %s:\n\n", city)
	for i, theater := range theaters {
		if i == 8 {
			break
		}
		b.WriteString("• " + theater.Name + "\n")
	}
	b.WriteString("\nTo see movies and show timings for a specific theater, ask about a particular movie!")

	return b.String(), nil
}

func (a *Assistant) theatersForMovie(ctx context.Context, movie *domain.Movie) (string, error) {
	shows, err := a.showRepo.GetByMovie(ctx, movie.ID)
	if err != nil {
		return "", err
	}

	if len(shows) == 0 {
		return fmt.Sprintf("Sorry, %s is not currently showing in any theaters.", movie.Title), nil
	}

	byCity := make(map[string][]string)
	order := make([]string, 0)

	for _, show := range shows {
		if _, ok := byCity[show.City]; !ok {
			order = append(order, show.City)
		}
		byCity[show.City] = appendUnique(byCity[show.City], show.TheaterName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎭 %s is playing at:\n\n", movie.Title)

	for _, city := range order {
		fmt.Fprintf(&b, "📍 %s:\n", city)
		for i, theater := range byCity[city] {
			if i == 3 {
				break
			}
			b.WriteString("  • " + theater + "\n")
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func (a *Assistant) theatersForMovieInCity(ctx context.Context, movie *domain.Movie, city string) (string, error) {
	shows, err := a.showRepo.GetByMovie(ctx, movie.ID)
	if err != nil {
		return "", err
	}

	type theaterShows struct {
		timings []string
		seats   int
	}

	byTheater := make(map[string]*theaterShows)
	order := make([]string, 0)

	for _, show := range shows {
		if !strings.Contains(strings.ToLower(show.City), strings.ToLower(city)) {
			continue
		}

		entry, ok := byTheater[show.TheaterName]
		if !ok {
			entry = &theaterShows{}
			byTheater[show.TheaterName] = entry
			order = append(order, show.TheaterName)
		}

		entry.timings = appendUnique(entry.timings, show.Timing)
		entry.seats += show.AvailableSeats
	}

	if len(order) == 0 {
		return fmt.Sprintf("Sorry, %s is not currently showing in %s.", movie.Title, city), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎭 %s in %s:\n\n", movie.Title, city)

	for _, theater := range order {
		entry := byTheater[theater]
		b.WriteString("• " + theater + "\n")
		b.WriteString("  Show times: " + strings.Join(entry.timings, ", ") + "\n")
		fmt.Fprintf(&b, "  Available seats: %d\n\n", entry.seats)
	}

	b.WriteString("To book tickets, visit our booking page!")

	return b.String(), nil
}

func (a *Assistant) answerTimingQuery(ctx context.Context, input string, movies []domain.Movie) (string, error) {
	movie := matchMovie(input, movies)
	if movie == nil {
		return "Which movie's timings would you like? For example: 'Show timings for [movie name]'", nil
	}

	shows, err := a.showRepo.GetByMovie(ctx, movie.ID)
	if err != nil {
		return "", err
	}

	if len(shows) == 0 {
		return "Sorry, no show timings found for " + movie.Title, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🕐 Show timings for %s:\n\n", movie.Title)

	for _, show := range shows {
		fmt.Fprintf(&b, "📍 %s - %s: %s (%d seats available)\n",
			show.City, show.TheaterName, show.Timing, show.AvailableSeats)
	}

	return b.String(), nil
}

func (a *Assistant) answerMovieDetails(ctx context.Context, movie *domain.Movie) (string, error) {
	shows, err := a.showRepo.GetByMovie(ctx, movie.ID)
	if err != nil {
		return "", err
	}

	if len(shows) == 0 {
		return fmt.Sprintf("🎬 %s is available but currently has no scheduled shows. Please check back later!",
			movie.Title), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎬 %s Details:\n", movie.Title)
	if movie.Genre != "" {
		b.WriteString("Genre: " + movie.Genre + "\n")
	}
	if movie.Language != "" {
		b.WriteString("Language: " + movie.Language + "\n")
	}
	if movie.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %d mins\n", movie.Duration)
	}

	b.WriteString("\n🎭 Available in theaters:\n")

	cities := make([]string, 0)
	for _, show := range shows {
		cities = appendUnique(cities, show.City)
	}

	for i, city := range cities {
		if i == 5 {
			break
		}
		b.WriteString("• " + city + "\n")
	}

	fmt.Fprintf(&b, "\nTo see specific theaters and timings, ask: 'Show theaters for %s in [city name]'", movie.Title)

	return b.String(), nil
}

func (a *Assistant) answerGeneralInfo(ctx context.Context) (string, error) {
	stats, err := a.showRepo.Stats(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("🎬 We currently have %d movies playing across %d theaters with %d scheduled shows. "+
		"Ask 'What movies are available?' to see the full list!",
		stats.TotalMovies, stats.TotalTheaters, stats.TotalShows), nil
}

func matchMovie(input string, movies []domain.Movie) *domain.Movie {
	for i := range movies {
		if movies[i].Title != "" && strings.Contains(input, strings.ToLower(movies[i].Title)) {
			return &movies[i]
		}
	}

	return nil
}

func appendUnique(items []string, item string) []string {
	for _, existing := range items {
		if existing == item {
			return items
		}
	}

	return append(items, item)
}
