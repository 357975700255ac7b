package content

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	maxNavCategories = 5
	recentPostCount  = 5
)

// PostRef is a lightweight projection of an Entry for buckets, navigation
// and recent-post lists.
type PostRef struct {
	Title   string
	URL     string
	Date    time.Time
	Excerpt string
}

// Bucket indexes the posts sharing one category or tag name.
type Bucket struct {
	Name  string
	Slug  string
	Count int
	Posts []PostRef
}

// NavItem is one rendered navigation entry.
type NavItem struct {
	Title    string
	URL      string
	Icon     string
	Category string
	Count    int
}

// Stats are corpus-wide aggregate counts. Word and reading-time totals
// cover published posts only; TotalPosts counts drafts too.
type Stats struct {
	TotalPosts       int
	TotalWords       int
	TotalReadingTime int
	AvgWords         int
	AvgReadingTime   int
	PublishedPosts   int
	DraftPosts       int
	FeaturedPosts    int
}

// Site is the aggregation result for one build pass. It is rebuilt from
// scratch every pass, never updated incrementally.
type Site struct {
	Posts       []*Entry
	Pages       []*Entry
	Categories  map[string]*Bucket
	Tags        map[string]*Bucket
	Navigation  []NavItem
	RecentPosts []PostRef
	Stats       Stats
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into a lowercase hyphen-delimited URL segment.
func Slugify(name string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// Aggregate derives the category/tag indexes, navigation, recent posts and
// statistics from the extracted corpus. It never fails: a panic anywhere in
// the derivation is swallowed and an empty-but-well-formed Site is returned
// so that a listing problem cannot abort the build.
func Aggregate(entries []*Entry) (site *Site) {
	defer func() {
		if recover() != nil {
			site = emptySite()
		}
	}()
	return aggregate(entries)
}

func aggregate(entries []*Entry) *Site {
	site := emptySite()

	for _, e := range entries {
		if e.IsPage {
			site.Pages = append(site.Pages, e)
		} else {
			site.Posts = append(site.Posts, e)
		}
	}

	// Date descending; ties keep discovery order.
	sort.SliceStable(site.Posts, func(i, j int) bool {
		return site.Posts[i].Date.After(site.Posts[j].Date)
	})

	for _, p := range site.Posts {
		ref := PostRef{Title: p.Title, URL: p.URL, Date: p.Date, Excerpt: p.Excerpt}
		for _, c := range p.Categories {
			addToBucket(site.Categories, c, ref)
		}
		for _, t := range p.Tags {
			addToBucket(site.Tags, t, ref)
		}

		site.Stats.TotalPosts++
		if p.Draft {
			site.Stats.DraftPosts++
		} else {
			site.Stats.PublishedPosts++
			site.Stats.TotalWords += p.WordCount
			site.Stats.TotalReadingTime += p.ReadingTime
			if len(site.RecentPosts) < recentPostCount {
				site.RecentPosts = append(site.RecentPosts, ref)
			}
		}
		if p.Featured {
			site.Stats.FeaturedPosts++
		}
	}

	if n := site.Stats.PublishedPosts; n > 0 {
		site.Stats.AvgWords = roundedAvg(site.Stats.TotalWords, n)
		site.Stats.AvgReadingTime = roundedAvg(site.Stats.TotalReadingTime, n)
	}

	site.Navigation = buildNavigation(site)
	return site
}

func emptySite() *Site {
	return &Site{
		Categories: map[string]*Bucket{},
		Tags:       map[string]*Bucket{},
		Navigation: []NavItem{homeNavItem()},
	}
}

func homeNavItem() NavItem {
	return NavItem{Title: "Home", URL: "/", Icon: "home"}
}

func addToBucket(buckets map[string]*Bucket, name string, ref PostRef) {
	b, ok := buckets[name]
	if !ok {
		b = &Bucket{Name: name, Slug: Slugify(name)}
		buckets[name] = b
	}
	b.Count++
	b.Posts = append(b.Posts, ref)
}

func roundedAvg(total, n int) int {
	return (total + n/2) / n
}

// buildNavigation assembles: home, then categories with more than one member
// ranked by descending count (capped at 5), then an about page when one
// exists, then an archive link when the corpus has posts.
func buildNavigation(site *Site) []NavItem {
	nav := []NavItem{homeNavItem()}

	var top []*Bucket
	for _, b := range site.Categories {
		if b.Count > 1 {
			top = append(top, b)
		}
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > maxNavCategories {
		top = top[:maxNavCategories]
	}
	for _, b := range top {
		nav = append(nav, NavItem{
			Title:    b.Name,
			URL:      "/categories/" + b.Slug + "/",
			Icon:     "folder",
			Category: b.Name,
			Count:    b.Count,
		})
	}

	if about := findByURL(site, "/about/"); about != nil {
		nav = append(nav, NavItem{Title: about.Title, URL: about.URL, Icon: "user"})
	}

	if len(site.Posts) > 0 {
		nav = append(nav, NavItem{Title: "Archive", URL: "/archive/", Icon: "archive", Count: len(site.Posts)})
	}
	return nav
}

func findByURL(site *Site, url string) *Entry {
	for _, p := range site.Pages {
		if p.URL == url {
			return p
		}
	}
	for _, p := range site.Posts {
		if p.URL == url {
			return p
		}
	}
	return nil
}
