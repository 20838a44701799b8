package generator

import (
	"fmt"
	"math/rand"

	"github.com/Project-Sylos/DriveLister/internal/types"
	"github.com/google/uuid"
)

// SeedConfig controls the shape of a synthetic Drive tree
type SeedConfig struct {
	MaxDepth   int   `json:"max_depth"`
	MinFolders int   `json:"min_folders"`
	MaxFolders int   `json:"max_folders"`
	MinFiles   int   `json:"min_files"`
	MaxFiles   int   `json:"max_files"`
	Seed       int64 `json:"seed"`
}

// DefaultSeedConfig returns a small tree that is one level deeper than the
// default listing depth, so truncation is visible in the demo
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		MaxDepth:   types.DefaultMaxDepth + 1,
		MinFolders: 1,
		MaxFolders: 3,
		MinFiles:   1,
		MaxFiles:   4,
		Seed:       42,
	}
}

// RNG wraps math/rand.Rand for seeded random generation
type RNG struct {
	*rand.Rand
}

// NewRNG creates a new seeded random number generator
func NewRNG(seed int64) *RNG {
	return &RNG{
		Rand: rand.New(rand.NewSource(seed)),
	}
}

// folderNames and fileNames mix accented and unaccented words so generated
// trees exercise locale-aware ordering
var folderNames = []string{"Atas", "Documentos", "Édito", "Fotografias", "Órgãos", "Regulamentos", "Relatórios", "Zona"}

var fileNames = []string{"ata", "balanço", "convocatória", "Estatutos", "índice", "orçamento", "plano", "Ética"}

// fileKinds pairs an extension with the mime type Drive reports for it
var fileKinds = []struct {
	Ext      string
	MimeType string
}{
	{"pdf", "application/pdf"},
	{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	{"png", "image/png"},
	{"mp4", "video/mp4"},
	{"txt", "text/plain"},
	{"zip", "application/zip"},
	{"", "application/vnd.google-apps.document"},
}

// ValidateConfig validates the generator configuration
func ValidateConfig(cfg SeedConfig) error {
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative, got %d", cfg.MaxDepth)
	}
	if cfg.MinFolders < 0 || cfg.MaxFolders < cfg.MinFolders {
		return fmt.Errorf("invalid folder count range: min=%d, max=%d", cfg.MinFolders, cfg.MaxFolders)
	}
	if cfg.MinFiles < 0 || cfg.MaxFiles < cfg.MinFiles {
		return fmt.Errorf("invalid file count range: min=%d, max=%d", cfg.MinFiles, cfg.MaxFiles)
	}
	return nil
}

// GenerateChildren generates the children of a folder at the given depth.
// Folders at MaxDepth get no children. Identical seeds yield identical trees,
// ids included.
func GenerateChildren(depth int, rng *RNG, cfg SeedConfig) ([]types.Item, error) {
	var children []types.Item

	// Don't generate children if we've reached max depth
	if depth >= cfg.MaxDepth {
		return children, nil
	}

	// Generate folders
	folderCount := rng.Intn(cfg.MaxFolders-cfg.MinFolders+1) + cfg.MinFolders
	for i := 0; i < folderCount; i++ {
		folder, err := generateFolder(i+1, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to generate folder %d: %w", i+1, err)
		}
		children = append(children, folder)
	}

	// Generate files
	fileCount := rng.Intn(cfg.MaxFiles-cfg.MinFiles+1) + cfg.MinFiles
	for i := 0; i < fileCount; i++ {
		file, err := generateFile(i+1, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to generate file %d: %w", i+1, err)
		}
		children = append(children, file)
	}

	// Drive returns entries in no particular order; shuffle so callers cannot rely on it
	rng.Shuffle(len(children), func(i, j int) { children[i], children[j] = children[j], children[i] })

	return children, nil
}

// generateFolder creates a new folder item
func generateFolder(index int, rng *RNG) (types.Item, error) {
	id, err := newID(rng)
	if err != nil {
		return types.Item{}, err
	}

	return types.Item{
		ID:       id,
		Name:     fmt.Sprintf("%s %d", folderNames[rng.Intn(len(folderNames))], index),
		MimeType: types.MimeTypeFolder,
	}, nil
}

// generateFile creates a new file item. Some files deliberately omit the
// view link so the fallback URL gets used.
func generateFile(index int, rng *RNG) (types.Item, error) {
	id, err := newID(rng)
	if err != nil {
		return types.Item{}, err
	}

	kind := fileKinds[rng.Intn(len(fileKinds))]
	name := fmt.Sprintf("%s %d", fileNames[rng.Intn(len(fileNames))], index)
	if kind.Ext != "" {
		name += "." + kind.Ext
	}

	item := types.Item{
		ID:            id,
		Name:          name,
		MimeType:      kind.MimeType,
		FileExtension: kind.Ext,
	}
	if rng.Intn(4) != 0 {
		item.WebViewLink = fmt.Sprintf("https://drive.google.com/file/d/%s/view?usp=drivesdk", id)
	}
	return item, nil
}

// newID derives a Drive-looking id from the seeded source
func newID(rng *RNG) (string, error) {
	u, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return "1" + u.String()[:8] + u.String()[9:13] + u.String()[14:18], nil
}
