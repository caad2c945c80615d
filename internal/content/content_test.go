package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedDocument(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Yantrashilpa Technologies Pvt Ltd", s.Company.LegalName)
	assert.Len(t, s.Nav, 6)
	assert.Equal(t, "/", s.Nav[0].Target)
	assert.Len(t, s.Stats, 3)
	assert.Equal(t, 1415, s.Stats[0].Value)
	assert.Len(t, s.Services, 4)
	assert.Len(t, s.Values, 3)
	assert.Equal(t, "01", s.Values[0].Number)
	assert.Len(t, s.Projects, 4)
	assert.Len(t, s.Gallery.Images, 9)
	assert.Len(t, s.Career.Jobs, 4)
	assert.Len(t, s.About.Timeline, 4)
	assert.Equal(t, "Our Products", s.Page("products").Title)
	assert.Equal(t, []string{"+91 9112211150", "+91 80 2345 6789"}, s.Company.Phones)
}

func TestGalleryByCategory(t *testing.T) {
	s := MustLoad()

	tests := []struct {
		category string
		wantIDs  []int
	}{
		{"All", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"Unknown", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"Testing", []int{3, 4, 8}},
		{"Office", []int{6, 9}},
		{"Team", []int{1, 7}},
		{"Manufacturing", []int{2, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			var ids []int
			for _, img := range s.GalleryByCategory(tt.category) {
				ids = append(ids, img.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestGalleryCategories_AllFirst(t *testing.T) {
	s := MustLoad()
	assert.Equal(t, []string{"All", "Office", "Manufacturing", "Testing", "Team"}, s.GalleryCategories())
}

func TestJob(t *testing.T) {
	s := MustLoad()

	j, ok := s.Job(2)
	require.True(t, ok)
	assert.Equal(t, "Automation Engineer", j.Title)
	assert.Len(t, j.Requirements, 5)

	_, ok = s.Job(42)
	assert.False(t, ok)
}

func TestParse_RejectsInvalidDocuments(t *testing.T) {
	tests := map[string]string{
		"duplicate gallery id": `
gallery:
  categories: [Office]
  images:
    - {id: 1, category: Office}
    - {id: 1, category: Office}
`,
		"undeclared category": `
gallery:
  categories: [Office]
  images:
    - {id: 1, category: Lab}
`,
		"duplicate job": `
career:
  jobs:
    - {id: 3}
    - {id: 3}
`,
		"duplicate project": `
projects:
  - {id: 1}
  - {id: 1}
`,
		"malformed": "nav: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}
