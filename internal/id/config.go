package id

const (
	defaultFieldsURL       = "https://raw.githubusercontent.com/openstreetmap/id-tagging-schema/main/dist/fields.json"
	defaultPresetsURL      = "https://raw.githubusercontent.com/openstreetmap/id-tagging-schema/main/dist/presets.json"
	defaultTranslationsURL = "https://raw.githubusercontent.com/openstreetmap/id-tagging-schema/main/dist/translations/en.json"
)

type Config struct {
	FieldsURL       string `yaml:"fields_url"`
	PresetsURL      string `yaml:"presets_url"`
	TranslationsURL string `yaml:"translations_url"`

	// Chunk declares every field once as a chunk and lets items reference it.
	Chunk bool `yaml:"chunk"`
	// JOSMOnly leaves out attributes only Vespucci understands.
	JOSMOnly bool `yaml:"josm_only"`
	// Taginfo backfills missing option lists from usage statistics.
	Taginfo bool `yaml:"taginfo"`

	Author           string `yaml:"author"`
	ShortDescription string `yaml:"short_description"`
	Description      string `yaml:"description"`
	Version          string `yaml:"version"`
}

func DefaultConfig() *Config {
	return &Config{
		FieldsURL:        defaultFieldsURL,
		PresetsURL:       defaultPresetsURL,
		TranslationsURL:  defaultTranslationsURL,
		Taginfo:          true,
		ShortDescription: "iD presets",
		Description:      "Presets converted from the iD tagging schema",
	}
}
