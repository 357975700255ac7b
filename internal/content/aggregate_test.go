package content

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func post(title string, day int, mods ...func(*Entry)) *Entry {
	e := &Entry{
		Title:       title,
		URL:         "/blog/" + Slugify(title) + "/",
		Date:        time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		WordCount:   400,
		ReadingTime: 2,
	}
	for _, mod := range mods {
		mod(e)
	}
	return e
}

func withTags(tags ...string) func(*Entry)     { return func(e *Entry) { e.Tags = tags } }
func withCategories(cs ...string) func(*Entry) { return func(e *Entry) { e.Categories = cs } }
func asDraft() func(*Entry)                    { return func(e *Entry) { e.Draft = true } }
func asFeatured() func(*Entry)                 { return func(e *Entry) { e.Featured = true } }

func TestSlugify(t *testing.T) {
	require.Equal(t, "hello-world", Slugify("Hello World"))
	require.Equal(t, "c-tooling", Slugify("C++ Tooling!"))
	require.Equal(t, "go", Slugify("  Go  "))
}

func TestAggregate_TagBuckets(t *testing.T) {
	site := Aggregate([]*Entry{
		post("One", 1, withTags("go")),
		post("Two", 2, withTags("go")),
		post("Three", 3, withTags("rust")),
	})

	require.Equal(t, 2, site.Tags["go"].Count)
	require.Len(t, site.Tags["go"].Posts, 2)
	require.Equal(t, 1, site.Tags["rust"].Count)
	require.Len(t, site.Tags["rust"].Posts, 1)
	// Bucket references preserve the date-descending post order.
	require.Equal(t, "Two", site.Tags["go"].Posts[0].Title)
	require.Equal(t, "One", site.Tags["go"].Posts[1].Title)
}

func TestAggregate_DraftsStayInBucketsButNotRecent(t *testing.T) {
	site := Aggregate([]*Entry{
		post("Live", 2, withCategories("news")),
		post("Hidden", 3, withCategories("news"), asDraft()),
	})

	require.Equal(t, 2, site.Categories["news"].Count)
	require.Len(t, site.RecentPosts, 1)
	require.Equal(t, "Live", site.RecentPosts[0].Title)
}

func TestAggregate_RecentPostsCappedAndSorted(t *testing.T) {
	var entries []*Entry
	for i := 1; i <= 8; i++ {
		entries = append(entries, post(fmt.Sprintf("Post %d", i), i))
	}
	site := Aggregate(entries)

	require.Len(t, site.RecentPosts, 5)
	require.Equal(t, "Post 8", site.RecentPosts[0].Title)
	require.Equal(t, "Post 4", site.RecentPosts[4].Title)
}

func TestAggregate_Stats(t *testing.T) {
	site := Aggregate([]*Entry{
		post("A", 1),
		post("B", 2, asFeatured()),
		post("C", 3, asDraft()),
	})

	s := site.Stats
	require.Equal(t, 3, s.TotalPosts)
	require.Equal(t, 2, s.PublishedPosts)
	require.Equal(t, 1, s.DraftPosts)
	require.Equal(t, s.TotalPosts, s.PublishedPosts+s.DraftPosts)
	require.Equal(t, 1, s.FeaturedPosts)
	// Words and reading time cover published posts only.
	require.Equal(t, 800, s.TotalWords)
	require.Equal(t, 4, s.TotalReadingTime)
	require.Equal(t, 400, s.AvgWords)
	require.Equal(t, 2, s.AvgReadingTime)
}

func TestAggregate_EmptyCorpus(t *testing.T) {
	site := Aggregate(nil)

	require.Empty(t, site.Posts)
	require.Zero(t, site.Stats.TotalPosts)
	require.Zero(t, site.Stats.AvgWords)
	require.Equal(t, []NavItem{{Title: "Home", URL: "/", Icon: "home"}}, site.Navigation)
}

func TestAggregate_Navigation(t *testing.T) {
	entries := []*Entry{
		post("P1", 1, withCategories("go", "notes")),
		post("P2", 2, withCategories("go")),
		post("P3", 3, withCategories("rust")),
		post("P4", 4, withCategories("rust")),
		post("P5", 5, withCategories("solo")),
		{Title: "About", URL: "/about/"},
	}
	site := Aggregate(entries)

	nav := site.Navigation
	require.Equal(t, "Home", nav[0].Title)

	// Only categories with more than one member, ranked by count then name.
	require.Equal(t, "go", nav[1].Category)
	require.Equal(t, 2, nav[1].Count)
	require.Equal(t, "/categories/go/", nav[1].URL)
	require.Equal(t, "rust", nav[2].Category)

	require.Equal(t, "About", nav[3].Title)
	require.Equal(t, "/about/", nav[3].URL)

	archive := nav[len(nav)-1]
	require.Equal(t, "Archive", archive.Title)
	require.Equal(t, 6, archive.Count)
}

func TestAggregate_NavigationCategoryCap(t *testing.T) {
	var entries []*Entry
	for i := 0; i < 7; i++ {
		name := fmt.Sprintf("cat-%d", i)
		entries = append(entries,
			post(fmt.Sprintf("A%d", i), i+1, withCategories(name)),
			post(fmt.Sprintf("B%d", i), i+2, withCategories(name)),
		)
	}
	site := Aggregate(entries)

	categories := 0
	for _, item := range site.Navigation {
		if item.Category != "" {
			categories++
		}
	}
	require.Equal(t, 5, categories)
}

func TestAggregate_IndexFilesAreNotPosts(t *testing.T) {
	site := Aggregate([]*Entry{
		{Title: "Home", URL: "/", IsPage: true},
		post("Real", 1),
	})
	require.Len(t, site.Posts, 1)
	require.Len(t, site.Pages, 1)
	require.Equal(t, 1, site.Stats.TotalPosts)
}
