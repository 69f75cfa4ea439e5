package unsplash

// Photo is the subset of the /photos/random record the pipeline reads.
type Photo struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Urls  Urls   `json:"urls"`
	User  User   `json:"user"`
	Links Links  `json:"links"`
}

type Urls struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

type User struct {
	Name  string `json:"name"`
	Links struct {
		HTML string `json:"html"`
	} `json:"links"`
}

type Links struct {
	DownloadLocation string `json:"download_location"`
}

// TrackingRef is the download location that must be pinged whenever the
// photo is shown.
type TrackingRef string

type errorResponse struct {
	Errors []string `json:"errors"`
}
