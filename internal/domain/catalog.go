package domain

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Category is the library category, encoded as the asset id prefix
type Category string

const (
	CategoryAll        Category = "all"
	CategoryBeam       Category = "b-" // Beam control optics
	CategoryComplex    Category = "c-" // Complex assemblies (lasers, modulators, fibers)
	CategoryElectronic Category = "e-" // Electronics (detectors, servos, mixers)
)

// Categories lists the concrete categories in display order
var Categories = []Category{CategoryBeam, CategoryComplex, CategoryElectronic}

func (c Category) String() string {
	switch c {
	case CategoryAll:
		return "All"
	case CategoryBeam:
		return "Beam"
	case CategoryComplex:
		return "Complex"
	case CategoryElectronic:
		return "Electronic"
	default:
		return string(c)
	}
}

// ParseCategory accepts a prefix ("b-"), a letter ("b") or a name ("beam")
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return CategoryAll, nil
	case "b", "b-", "beam":
		return CategoryBeam, nil
	case "c", "c-", "complex":
		return CategoryComplex, nil
	case "e", "e-", "electronic":
		return CategoryElectronic, nil
	}
	return "", fmt.Errorf("unknown category: %s", s)
}

// AssetBasePath is where the component SVGs are served from
const AssetBasePath = "/ComponentLibrary_files/svg/"

// LibraryEntry describes one selectable component type and its visual asset
type LibraryEntry struct {
	ID          string   `json:"id"`       // e.g., "b-lens1"
	DisplayName string   `json:"name"`     // e.g., "LENS1"
	Category    Category `json:"category"` // e.g., "b-"
	AssetPath   string   `json:"path"`     // e.g., "/ComponentLibrary_files/svg/b-lens1.svg"
}

// Component returns the node payload for an entry dropped on the canvas
func (e LibraryEntry) Component() ComponentData {
	return ComponentData{
		Label:     e.DisplayName,
		AssetPath: e.AssetPath,
	}
}

// NewLibraryEntry derives an entry from an asset file name such as "c-laser1.svg".
// Returns false when the name does not carry a known category prefix.
func NewLibraryEntry(file string) (LibraryEntry, bool) {
	file = path.Base(file)
	if !strings.HasSuffix(strings.ToLower(file), ".svg") {
		return LibraryEntry{}, false
	}
	id := file[:len(file)-len(".svg")]
	if len(id) < 3 {
		return LibraryEntry{}, false
	}

	category := Category(id[:2])
	switch category {
	case CategoryBeam, CategoryComplex, CategoryElectronic:
	default:
		return LibraryEntry{}, false
	}

	parts := strings.Split(id, "-")
	return LibraryEntry{
		ID:          id,
		DisplayName: strings.ToUpper(strings.Join(parts[1:], "-")),
		Category:    category,
		AssetPath:   AssetBasePath + file,
	}, true
}

// BuiltinAssets is the asset manifest used when no directory listing is available
var BuiltinAssets = []string{
	"b-bsp.svg", "b-bspcube.svg", "b-coupler.svg", "b-credit.svg", "b-crystalcc.svg",
	"b-crystalfc.svg", "b-crystalff.svg", "b-diccube.svg", "b-dicgrn.svg", "b-dicred.svg",
	"b-dump.svg", "b-grat.svg", "b-lens1.svg", "b-lens2.svg", "b-lens3.svg",
	"b-mir.svg", "b-mirc.svg", "b-mircpzt.svg", "b-mirpzt.svg", "b-npro.svg",
	"b-phase.svg", "b-wpgn.svg", "b-wpred.svg", "b-wpyel.svg",
	"c-aom.svg", "c-diodegrn.svg", "c-eom1.svg", "c-eom2.svg", "c-fiber.svg",
	"c-fibercoupl.svg", "c-flip.svg", "c-isolator.svg", "c-laser1.svg", "c-laser2.svg",
	"c-mirpzt3ax.svg", "c-modeclean.svg", "c-modecleanpzt.svg", "c-opacc.svg",
	"c-opaccplates.svg", "c-opacfplates.svg", "c-opafc.svg", "c-opaff.svg",
	"c-opaffplates.svg", "c-opakerr.svg", "c-opared.svg", "c-rotator.svg",
	"e-amp.svg", "e-computer.svg", "e-diff.svg", "e-frq1.svg", "e-frq2.svg",
	"e-hipass.svg", "e-hvampleft.svg", "e-hvampright.svg", "e-lopass.svg", "e-mix.svg",
	"e-pd1.svg", "e-pd2.svg", "e-pdgrn1.svg", "e-pdgrn2.svg", "e-qpd.svg",
	"e-servoleft.svg", "e-servoright.svg", "e-spekki.svg", "e-sum.svg", "e-sumdiff.svg",
}

// ManifestEntries converts asset file names into library entries, skipping
// unknown prefixes and duplicates while preserving order
func ManifestEntries(files []string) []LibraryEntry {
	seen := make(map[string]bool, len(files))
	entries := make([]LibraryEntry, 0, len(files))
	for _, f := range files {
		entry, ok := NewLibraryEntry(f)
		if !ok || seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true
		entries = append(entries, entry)
	}
	return entries
}

// Catalog is the immutable library of component types
type Catalog struct {
	entries []LibraryEntry
	byID    map[string]int
}

// NewCatalog creates a catalog. Entries are sorted by id.
func NewCatalog(entries []LibraryEntry) *Catalog {
	sorted := make([]LibraryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	byID := make(map[string]int, len(sorted))
	for i, e := range sorted {
		byID[e.ID] = i
	}
	return &Catalog{entries: sorted, byID: byID}
}

// BuiltinCatalog returns the catalog of the built-in asset manifest
func BuiltinCatalog() *Catalog {
	return NewCatalog(ManifestEntries(BuiltinAssets))
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all entries
func (c *Catalog) Entries() []LibraryEntry {
	out := make([]LibraryEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup finds an entry by id
func (c *Catalog) Lookup(id string) (LibraryEntry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return LibraryEntry{}, false
	}
	return c.entries[i], true
}

// Filter returns entries in the category whose display name or id contains
// searchText, case-insensitively. Empty searchText matches everything.
func (c *Catalog) Filter(category Category, searchText string) []LibraryEntry {
	query := strings.ToLower(searchText)
	out := make([]LibraryEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if category != CategoryAll && e.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(e.DisplayName), query) &&
			!strings.Contains(strings.ToLower(e.ID), query) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Fallback assets for inventory rows that match no library entry
const (
	fallbackLaserAsset    = AssetBasePath + "c-laser1.svg"
	fallbackLensAsset     = AssetBasePath + "b-lens1.svg"
	fallbackMirrorAsset   = AssetBasePath + "b-mir.svg"
	fallbackDefaultAsset  = AssetBasePath + "e-computer.svg"
	laserSystemIdentifier = "Laser"
)

// MatchRow picks the asset for an inventory row: the first entry whose display
// name contains, or is contained in, the row's element; otherwise a fallback
// chosen from the system and element. An empty element is contained in every
// name, so it takes the first entry.
func (c *Catalog) MatchRow(row InventoryRow) string {
	element := strings.ToLower(row.Element)
	for _, e := range c.entries {
		name := strings.ToLower(e.DisplayName)
		if strings.Contains(element, name) || strings.Contains(name, element) {
			return e.AssetPath
		}
	}

	switch {
	case row.System == laserSystemIdentifier:
		return fallbackLaserAsset
	case strings.Contains(row.Element, "Lens"):
		return fallbackLensAsset
	case strings.Contains(row.Element, "Mirror"):
		return fallbackMirrorAsset
	default:
		return fallbackDefaultAsset
	}
}
