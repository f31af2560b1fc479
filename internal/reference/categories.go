package reference

import (
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

type category struct {
	parent  string
	name    string
	nameURL string
}

// CategoriesTable rozwiązuje pełne ścieżki kategorii (nazwy i URL)
type CategoriesTable struct {
	table
	lang     string
	plentyID string
	nodes    map[string]category
}

func NewCategories(log zerolog.Logger, lang, plentyID string) *CategoriesTable {
	return &CategoriesTable{
		table:    newTable(log, Categories),
		lang:     lang,
		plentyID: plentyID,
		nodes:    map[string]category{},
	}
}

func (t *CategoriesTable) Parse(payload gjson.Result) *CategoriesTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		c := category{parent: id(e.Get("parentCategoryId"))}
		if c.parent == "0" {
			c.parent = ""
		}
		for _, d := range e.Get("details").Array() {
			if !sameLang(d.Get("lang").String(), t.lang) {
				continue
			}
			if pid := d.Get("plentyId"); t.plentyID != "" && pid.Exists() && id(pid) != t.plentyID {
				continue
			}
			c.name = strings.TrimSpace(d.Get("name").String())
			c.nameURL = strings.Trim(d.Get("nameUrl").String(), "/ ")
			break
		}
		t.nodes[id(e.Get("id"))] = c
	}
	return t
}

// Path zwraca ścieżkę nazw ("A_B_C") i ścieżkę URL ("/a/b/c/") od korzenia.
// false gdy kategoria nieznana albo bez nazwy w danym języku.
func (t *CategoriesTable) Path(categoryID string) (names, urlPath string, ok bool) {
	leaf, found := t.nodes[categoryID]
	if !found || leaf.name == "" {
		return "", "", false
	}

	var nameParts, urlParts []string
	seen := map[string]bool{}
	for cur := categoryID; cur != "" && !seen[cur]; {
		seen[cur] = true
		c, found := t.nodes[cur]
		if !found {
			break
		}
		if c.name != "" {
			nameParts = append(nameParts, c.name)
		}
		if c.nameURL != "" {
			urlParts = append(urlParts, c.nameURL)
		}
		cur = c.parent
	}
	slices.Reverse(nameParts)
	slices.Reverse(urlParts)

	urlPath = "/"
	if len(urlParts) > 0 {
		urlPath = "/" + strings.Join(urlParts, "/") + "/"
	}
	return strings.Join(nameParts, "_"), urlPath, true
}

func (t *CategoriesTable) Len() int { return len(t.nodes) }
