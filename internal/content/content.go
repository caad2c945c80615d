// Package content holds the hand-authored display records of the public site.
// The records live in an embedded YAML document so copy edits never touch Go code.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var document []byte

// AllCategories is the pseudo-category that disables filtering.
const AllCategories = "All"

type NavItem struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
}

type Stat struct {
	Icon    string `yaml:"icon"`
	Value   int    `yaml:"value"`
	Label   string `yaml:"label"`
	DelayMS int    `yaml:"delay_ms"`
}

type Service struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	DelayMS     int    `yaml:"delay_ms"`
}

type Value struct {
	Number      string `yaml:"number"`
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	DelayMS     int    `yaml:"delay_ms"`
}

type Project struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

type TimelineEvent struct {
	Year        string `yaml:"year"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type JobOpening struct {
	ID           int      `yaml:"id"`
	Title        string   `yaml:"title"`
	Location     string   `yaml:"location"`
	Type         string   `yaml:"type"`
	Experience   string   `yaml:"experience"`
	Description  string   `yaml:"description"`
	Requirements []string `yaml:"requirements"`
}

type CultureHighlight struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type LifeItem struct {
	Image       string `yaml:"image"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type GalleryImage struct {
	ID          int    `yaml:"id"`
	Src         string `yaml:"src"`
	Category    string `yaml:"category"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type ContactBlock struct {
	Icon    string   `yaml:"icon"`
	Title   string   `yaml:"title"`
	Details []string `yaml:"details"`
}

type SocialLink struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type Company struct {
	Name      string   `yaml:"name"`
	ShortName string   `yaml:"short_name"`
	LegalName string   `yaml:"legal_name"`
	Emails    []string `yaml:"emails"`
	Phones    []string `yaml:"phones"`
	Address   []string `yaml:"address"`
	Hours     []string `yaml:"hours"`
	Copyright string   `yaml:"copyright"`
}

type Hero struct {
	Title       string `yaml:"title"`
	Highlight   string `yaml:"highlight"`
	Subtitle    string `yaml:"subtitle"`
	Image       string `yaml:"image"`
	PrimaryCTA  string `yaml:"primary_cta"`
	PrimaryLink string `yaml:"primary_link"`
	SecondCTA   string `yaml:"second_cta"`
	SecondLink  string `yaml:"second_link"`
}

type PageHero struct {
	Title string `yaml:"title"`
	Crumb string `yaml:"crumb"`
	Image string `yaml:"image"`
}

type About struct {
	TeamImage   string          `yaml:"team_image"`
	TeamCaption string          `yaml:"team_caption"`
	WhoWeAre    []string        `yaml:"who_we_are"`
	Mission     string          `yaml:"mission"`
	Vision      string          `yaml:"vision"`
	Timeline    []TimelineEvent `yaml:"timeline"`
}

type Career struct {
	Intro      string             `yaml:"intro"`
	Highlights []CultureHighlight `yaml:"highlights"`
	Jobs       []JobOpening       `yaml:"jobs"`
	Life       []LifeItem         `yaml:"life"`
}

type Gallery struct {
	Categories []string       `yaml:"categories"`
	Images     []GalleryImage `yaml:"images"`
}

type Contact struct {
	Intro    string         `yaml:"intro"`
	Blocks   []ContactBlock `yaml:"blocks"`
	MapNote  string         `yaml:"map_note"`
	ThankYou string         `yaml:"thank_you"`
}

// Site is the whole content document.
type Site struct {
	Company  Company             `yaml:"company"`
	Nav      []NavItem           `yaml:"nav"`
	Social   []SocialLink        `yaml:"social"`
	Hero     Hero                `yaml:"hero"`
	Pages    map[string]PageHero `yaml:"pages"`
	Stats    []Stat              `yaml:"stats"`
	Services []Service           `yaml:"services"`
	Values   []Value             `yaml:"values"`
	Projects []Project           `yaml:"projects"`
	About    About               `yaml:"about"`
	Gallery  Gallery             `yaml:"gallery"`
	Career   Career              `yaml:"career"`
	Contact  Contact             `yaml:"contact"`
}

// Load parses the embedded document and validates it.
func Load() (*Site, error) {
	return Parse(document)
}

// MustLoad is Load for program start-up.
func MustLoad() *Site {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

func Parse(b []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("content: parse: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects duplicate ids and gallery images filed under an
// undeclared category.
func (s *Site) Validate() error {
	seen := map[int]bool{}
	for _, img := range s.Gallery.Images {
		if seen[img.ID] {
			return fmt.Errorf("content: duplicate gallery id %d", img.ID)
		}
		seen[img.ID] = true
		if img.Category == AllCategories || !contains(s.Gallery.Categories, img.Category) {
			return fmt.Errorf("content: gallery image %d has unknown category %q", img.ID, img.Category)
		}
	}

	seen = map[int]bool{}
	for _, p := range s.Projects {
		if seen[p.ID] {
			return fmt.Errorf("content: duplicate project id %d", p.ID)
		}
		seen[p.ID] = true
	}

	seen = map[int]bool{}
	for _, j := range s.Career.Jobs {
		if seen[j.ID] {
			return fmt.Errorf("content: duplicate job id %d", j.ID)
		}
		seen[j.ID] = true
	}
	return nil
}

// GalleryCategories returns the filter tabs, "All" first.
func (s *Site) GalleryCategories() []string {
	out := make([]string, 0, len(s.Gallery.Categories)+1)
	out = append(out, AllCategories)
	return append(out, s.Gallery.Categories...)
}

// GalleryByCategory returns images in document order. "All", empty or an
// unknown category yields every image.
func (s *Site) GalleryByCategory(cat string) []GalleryImage {
	if cat == "" || cat == AllCategories || !contains(s.Gallery.Categories, cat) {
		out := make([]GalleryImage, len(s.Gallery.Images))
		copy(out, s.Gallery.Images)
		return out
	}
	var out []GalleryImage
	for _, img := range s.Gallery.Images {
		if img.Category == cat {
			out = append(out, img)
		}
	}
	return out
}

func (s *Site) Job(id int) (JobOpening, bool) {
	for _, j := range s.Career.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return JobOpening{}, false
}

// Page returns the banner for a named page; the zero value when absent.
func (s *Site) Page(name string) PageHero {
	return s.Pages[name]
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
