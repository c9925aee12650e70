package internal

type ReportOptions struct {
	// Network is the optional CIDR positional argument
	Network string
	Output  string
	// JSONOutput additionally saves the sections as json when set
	JSONOutput string
}

type CleanOptions struct {
	OlderThan int
	Delete    bool
}
