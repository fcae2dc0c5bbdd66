package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/masajid/masajid-seo/internal/pkg/errors"
	"github.com/masajid/masajid-seo/internal/pssg/config"
	"github.com/masajid/masajid-seo/internal/pssg/entity"
)

func testConfig(dataPath, format string) *config.Config {
	cfg := config.Default()
	cfg.Paths.Data = dataPath
	cfg.Data.Format = format
	return cfg
}

func load(t *testing.T, dataPath, format string) (*Result, error) {
	t.Helper()
	return New(testConfig(dataPath, format), zap.NewNop()).Load()
}

func ids(records []*entity.Mosque) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

var sampleIDs = []string{
	"n-001", "n-002", "n-003", "n-004",
	"e-001", "e-002", "e-003", "e-004",
	"ws-001", "ws-002", "ws-003", "ws-004",
}

func TestLoad_SampleFormats(t *testing.T) {
	tests := []struct {
		file   string
		format string
	}{
		{"testdata/masjids.ts", "typescript"},
		{"testdata/masjids.json", "json"},
		{"testdata/masjids.yaml", "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			res, err := load(t, tt.file, tt.format)
			require.NoError(t, err)

			assert.Equal(t, StrategyStrict, res.Strategy)
			assert.Empty(t, res.Warnings)
			assert.Equal(t, sampleIDs, ids(res.Records))

			n1 := res.Records[0]
			assert.Equal(t, "الشيخ عبدالرحمن السديس", n1.ReaderName)
			assert.Equal(t, "جامع الراجحي الكبير", n1.MosqueName)
			assert.Equal(t, "north", n1.Region)
			assert.InDelta(t, 24.81, n1.Coordinates.Lat, 1e-9)
			assert.InDelta(t, 46.625, n1.Coordinates.Lng, 1e-9)
			assert.Equal(t, "https://maps.google.com/?q=24.8100,46.6250", n1.MapsURL)
			assert.Equal(t, "https://example.com/audio/n-001.mp3", n1.AudioURL)
			assert.False(t, n1.HasNotes())

			assert.Equal(t, "مواقف واسعة متاحة", res.Records[2].Notes)
			assert.Equal(t, "يُنصح بالحضور مبكراً", res.Records[5].Notes)
			assert.Equal(t, "تجربة صوتية مميزة", res.Records[9].Notes)
		})
	}
}

func TestLiteralLoader_FallbackOnDrift(t *testing.T) {
	res, err := load(t, "testdata/masjids_drift.ts", "typescript")
	require.NoError(t, err)

	assert.Equal(t, StrategyFallback, res.Strategy)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, errors.CodeRecordParseDrift, res.Warnings[0].Code)
	assert.Equal(t, sampleIDs, ids(res.Records))
	assert.Equal(t, "الشيخ ماهر المعيقلي", res.Records[1].ReaderName)
	assert.Equal(t, "north", res.Records[3].Region)
	assert.Equal(t, "مواقف واسعة متاحة", res.Records[2].Notes)
	assert.Empty(t, res.Records[0].Notes)
	assert.InDelta(t, 46.67, res.Records[11].Coordinates.Lng, 1e-9)
}

func TestLiteralLoader_SkipsInvalidRecords(t *testing.T) {
	res, err := load(t, "testdata/masjids_malformed.ts", "typescript")
	require.NoError(t, err)

	assert.Equal(t, StrategyStrict, res.Strategy)
	assert.NotContains(t, ids(res.Records), "n-002")
	assert.NotContains(t, ids(res.Records), "e-003")
	assert.Len(t, res.Records, 10)

	require.Len(t, res.Warnings, 2)
	assert.Equal(t, errors.CodeInvalidRecord, res.Warnings[0].Code)
	assert.Contains(t, res.Warnings[0].Message, `record 2 (id "n-002"): coordinates.lng: required`)
	assert.Contains(t, res.Warnings[1].Message, `record 7 (id "e-003"): region: unknown region "south"`)
}

func TestLiteralLoader_FallbackMissingCoordinateIsSkipped(t *testing.T) {
	src := `export const M = [
  {
    id: 'a-1',
    readerName: 'r',
    masjidName: 'm',
    region: 'north',
    coordinates: { lat: 24.1 },
    googleMapsUrl: 'https://maps.google.com/?q=1,2',
    audioUrl: 'https://example.com/a.mp3',
  },
  {
    id: 'a-2',
    readerName: 'r',
    masjidName: 'm',
    region: 'north',
    coordinates: { lat: 24.2, lng: 46.5 },
    googleMapsUrl: 'https://maps.google.com/?q=1,2',
    audioUrl: 'https://example.com/b.mp3',
  },
  someHelper(),
]`
	path := filepath.Join(t.TempDir(), "m.ts")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	res, err := load(t, path, "typescript")
	require.NoError(t, err)

	assert.Equal(t, StrategyFallback, res.Strategy)
	assert.Equal(t, []string{"a-2"}, ids(res.Records))
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[1].Message, "coordinates.lng: required")
}

func TestLiteralLoader_FallbackToleratesCommentsAndExtraKeys(t *testing.T) {
	src := `export const M: Masjid[] = [
  ...EXTRA,
  { id: 'a-1', readerName: 'r1', masjidName: 'Al \'Ula', region: 'north', coordinates: { lat: 24.1, lng: 46.1 }, googleMapsUrl: 'https://maps.google.com/?q=1', audioUrl: 'https://example.com/1.mp3' },
  {
    id: 'a-2',
    // reader changes next season
    readerName: 'r2',
    masjidName: 'm2',
    region: 'east',
    coordinates: { lat: 24.2, lng: 46.2 },
    googleMapsUrl: 'https://maps.google.com/?q=2',
    audioUrl: 'https://example.com/2.mp3',
  },
  {
    id: 'a-3',
    readerName: 'r3',
    masjidName: 'm3',
    verified: true,
    region: 'east',
    coordinates: { lat: 24.3, lng: 46.3 },
    googleMapsUrl: 'https://maps.google.com/?q=3',
    audioUrl: 'https://example.com/3.mp3',
    notes: 'n3',
  },
  {
    id: "a-4",
    readerName: "r4",
    masjidName: "Imam's mosque",
    region: "westSouth",
    coordinates: { lat: 24.4, lng: 46.4 },
    googleMapsUrl: "https://maps.google.com/?q=4",
    audioUrl: "https://example.com/4.mp3",
  },
  {
    id: 'a-5',
    readerName: 'r5',
    masjidName: 'm5',
    region: 'north',
    audioUrl: 'https://example.com/5.mp3',
    coordinates: { lat: 24.5, lng: 46.5 },
    googleMapsUrl: 'https://maps.google.com/?q=5',
  },
]`
	path := filepath.Join(t.TempDir(), "m.ts")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	res, err := load(t, path, "typescript")
	require.NoError(t, err)

	assert.Equal(t, StrategyFallback, res.Strategy)
	assert.Equal(t, []string{"a-1", "a-2", "a-3", "a-4"}, ids(res.Records))
	assert.Equal(t, "Al 'Ula", res.Records[0].MosqueName)
	assert.Equal(t, "r2", res.Records[1].ReaderName)
	assert.Equal(t, "n3", res.Records[2].Notes)
	assert.Equal(t, "Imam's mosque", res.Records[3].MosqueName)
	assert.InDelta(t, 46.4, res.Records[3].Coordinates.Lng, 1e-9)

	require.Len(t, res.Warnings, 2)
	assert.Equal(t, errors.CodeRecordParseDrift, res.Warnings[0].Code)
	assert.Equal(t, errors.CodeInvalidRecord, res.Warnings[1].Code)
	assert.Equal(t, `skipping object 5 (id "a-5"): fields missing or out of order`, res.Warnings[1].Message)
}

func TestObjectLiterals(t *testing.T) {
	src := `[
  { a: '}', b: { c: 1 } },
  // { not an object }
  "{", /* { } */
  { d: "x\"}" },
]`
	assert.Equal(t, []string{
		"{ a: '}', b: { c: 1 } }",
		`{ d: "x\"}" }`,
	}, objectLiterals(src))
}

func TestLiteralLoader_DuplicateIDSkipped(t *testing.T) {
	src := `export const M = [
  { id: 'x', readerName: 'r', masjidName: 'm', region: 'east', coordinates: { lat: 1, lng: 2 }, googleMapsUrl: 'https://a.example/1', audioUrl: 'https://a.example/1.mp3' },
  { id: 'x', readerName: 'r2', masjidName: 'm2', region: 'east', coordinates: { lat: 1, lng: 2 }, googleMapsUrl: 'https://a.example/2', audioUrl: 'https://a.example/2.mp3' },
]`
	path := filepath.Join(t.TempDir(), "m.ts")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	res, err := load(t, path, "typescript")
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "r", res.Records[0].ReaderName)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "id: duplicate of record 1")
}

func TestLoad_DataUnavailable(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.ts")
	require.NoError(t, os.WriteFile(empty, []byte("export const M: Masjid[] = []\n"), 0o644))
	emptyJSON := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(emptyJSON, []byte("[]"), 0o644))

	tests := []struct {
		name   string
		path   string
		format string
	}{
		{"missing file", filepath.Join(dir, "absent.ts"), "typescript"},
		{"empty literal", empty, "typescript"},
		{"empty json", emptyJSON, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := load(t, tt.path, tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrDataUnavailable)
			assert.Equal(t, StrategyFailed, res.Strategy)
			assert.Empty(t, res.Records)
			assert.NotEmpty(t, res.Reason)
		})
	}
}

func TestStructuredLoader_AbortsWithLocation(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		format  string
		body    string
		wantErr string
	}{
		{
			name:   "json missing lng",
			format: "json",
			body: `[
  {"id":"n-001","readerName":"r","masjidName":"m","region":"north","coordinates":{"lat":24.81,"lng":46.62},"googleMapsUrl":"https://m.example/1","audioUrl":"https://a.example/1.mp3"},
  {"id":"n-002","readerName":"r","masjidName":"m","region":"north","coordinates":{"lat":24.81,"lng":46.62},"googleMapsUrl":"https://m.example/2","audioUrl":"https://a.example/2.mp3"},
  {"id":"n-003","readerName":"r","masjidName":"m","region":"north","coordinates":{"lat":24.82},"googleMapsUrl":"https://m.example/3","audioUrl":"https://a.example/3.mp3"}
]`,
			wantErr: `record 3 (id "n-003"): coordinates.lng: required`,
		},
		{
			name:    "json unknown field",
			format:  "json",
			body:    `[{"id":"n-001","readerName":"r","masjidName":"m","region":"north","coordinates":{"lat":1,"lng":2},"googleMapsUrl":"https://m.example/1","audioUrl":"https://a.example/1.mp3","rating":5}]`,
			wantErr: `record 1 (id "n-001")`,
		},
		{
			name:    "json non-numeric coordinate",
			format:  "json",
			body:    `[{"id":"n-001","readerName":"r","masjidName":"m","region":"north","coordinates":{"lat":"north-ish","lng":2},"googleMapsUrl":"https://m.example/1","audioUrl":"https://a.example/1.mp3"}]`,
			wantErr: `record 1 (id "n-001")`,
		},
		{
			name:   "yaml out of range latitude",
			format: "yaml",
			body: `- id: n-001
  readerName: r
  masjidName: m
  region: north
  coordinates: {lat: 124.8, lng: 46.6}
  googleMapsUrl: https://m.example/1
  audioUrl: https://a.example/1.mp3
`,
			wantErr: `record 1 (id "n-001"): coordinates.lat: not a valid latitude`,
		},
		{
			name:   "yaml unknown field",
			format: "yaml",
			body: `- id: n-001
  reader: r
`,
			wantErr: "line 2",
		},
		{
			name:   "yaml relative audio url",
			format: "yaml",
			body: `- id: n-001
  readerName: r
  masjidName: m
  region: north
  coordinates: {lat: 24.8, lng: 46.6}
  googleMapsUrl: https://m.example/1
  audioUrl: audio/n-001.mp3
`,
			wantErr: `record 1 (id "n-001"): audioUrl: not an absolute URL`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+"."+tt.format)
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			res, err := load(t, path, tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidRecord)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, StrategyFailed, res.Strategy)
			assert.Empty(t, res.Records)
		})
	}
}

func TestNormalizeLiteral(t *testing.T) {
	in := `[
  // leading comment
  {
    id: 'n-1', /* inline */
    url: 'https://maps.google.com/?q=1,2', // trailing
    say: 'it\'s "fine"',
    "quoted": "kept // as is",
  },
]`
	want := "[\n  \n  {\n" +
		"    \"id\": \"n-1\", \n" +
		"    \"url\": \"https://maps.google.com/?q=1,2\", \n" +
		"    \"say\": \"it's \\\"fine\\\"\",\n" +
		"    \"quoted\": \"kept // as is\"}]"

	assert.Equal(t, want, normalizeLiteral(in))
}

func TestLocateArray(t *testing.T) {
	src := "import type { Masjid } from '@/types'\n\nexport const M: Masjid[] = [\n  { id: 'a' },\n]\n"
	arr, ok := locateArray(src)
	require.True(t, ok)
	assert.Equal(t, "[\n  { id: 'a' },\n]", arr)

	_, ok = locateArray("export const M = {}")
	assert.False(t, ok)
}
