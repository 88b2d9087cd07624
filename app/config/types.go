package config

// File is the top-level layout of the feeds configuration file.
type File struct {
	Feeds []FeedConfig `yaml:"feeds"`
}

// FeedConfig identifies one source to ingest.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}
