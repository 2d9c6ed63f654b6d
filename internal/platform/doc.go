package platform

// Package platform contains OS integration used by the pipeline and the front
// ends: downloads directory resolution, filename sanitizing, locating files
// written by external downloaders, media sniffing, output directory locking,
// external tool lookup/installation and reveal-in-file-manager.
