package version

// Version is the current raksha release
const Version = "0.1.0"
