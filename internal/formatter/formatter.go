// package formatter provides functions to export aggregated library data to various formats (CSV, Markdown, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ferrovax/amx/internal/models"
)

// LibraryExport is a point-in-time snapshot of an aggregated library:
// the song set plus the genre and subgenre dictionaries built while
// enriching it.
type LibraryExport struct {
	Title     string            `json:"title"`
	Songs     []models.Song     `json:"songs"`
	Genres    map[string]string `json:"genres"` // name -> catalog ID
	Subgenres []string          `json:"subgenres"`
}

// NewLibraryExport snapshots the given songs and dictionaries under a title.
func NewLibraryExport(title string, songs []models.Song, genres *models.GenreDictionary, subgenres *models.SubgenreDictionary) *LibraryExport {
	export := &LibraryExport{
		Title: title,
		Songs: songs,
	}

	if genres != nil {
		export.Genres = genres.Snapshot()
	}
	if subgenres != nil {
		export.Subgenres = subgenres.Names()
		sort.Strings(export.Subgenres)
	}

	return export
}

// ExportToCSV converts a LibraryExport to CSV format with columns: ID, Genres, Subgenres
func ExportToCSV(export *LibraryExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Genres", "Subgenres"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range export.Songs {
		record := []string{
			song.ID,
			strings.Join(export.genreNames(song), "; "),
			strings.Join(song.SubgenreNames, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a LibraryExport to Markdown format
func ExportToMarkdown(export *LibraryExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Title))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", len(export.Songs)))
	buf.WriteString(fmt.Sprintf("**Genres**: %d\n", len(export.Genres)))
	buf.WriteString(fmt.Sprintf("**Subgenres**: %d\n\n", len(export.Subgenres)))

	if len(export.Genres) > 0 {
		buf.WriteString("## Genres\n\n")
		names := make([]string, 0, len(export.Genres))
		for name := range export.Genres {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			buf.WriteString(fmt.Sprintf("- %s (%s)\n", name, export.Genres[name]))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Songs\n\n")
	for i, song := range export.Songs {
		genrePart := ""
		if names := export.genreNames(song); len(names) > 0 {
			genrePart = fmt.Sprintf(" [%s]", strings.Join(names, ", "))
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s\n", i+1, song.ID, genrePart))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a LibraryExport to indented JSON
func ExportToJSON(export *LibraryExport) ([]byte, error) {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return data, nil
}

// genreNames resolves a song's genre IDs through the export's dictionary
// snapshot, falling back to the raw ID for unknown genres.
func (e *LibraryExport) genreNames(song models.Song) []string {
	byID := make(map[string]string, len(e.Genres))
	for name, id := range e.Genres {
		byID[id] = name
	}

	names := make([]string, 0, len(song.GenreIDs))
	for _, id := range song.GenreIDs {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, id)
		}
	}
	return names
}

// ExportResult contains the paths of files created by WriteExport
type ExportResult struct {
	SongsFile   string
	LibraryFile string
}

// WriteExport exports a library snapshot to CSV with an accompanying JSON file.
//
// Defaults to the export title as the base filename & creates {base}_songs.csv and {base}_library.json
func WriteExport(export *LibraryExport, baseFilepath string) (*ExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Title
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := baseFilepath + "_songs.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	libraryJSON, err := ExportToJSON(export)
	if err != nil {
		return nil, err
	}

	libraryFile := baseFilepath + "_library.json"
	if err := os.WriteFile(libraryFile, libraryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write library file: %w", err)
	}

	return &ExportResult{
		SongsFile:   songsFile,
		LibraryFile: libraryFile,
	}, nil
}
