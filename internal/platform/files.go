package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
	WindowsCmdFlag     = "/c"
)

// DownloadsDirName is the directory under the user's home used by default
const DownloadsDirName = "Downloads"

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// Maximum length difference for two stems to still be considered the same file
const MaxNameDifference = 10

// Extensions of in-progress or metadata files written next to downloads
var (
	SkippedExtensions = []string{".part", ".ytdl", ".temp", ".json"}
)

// MediaExtensions are the containers downloaders may end up writing after
// merging or remuxing
var (
	MediaExtensions = []string{".mp4", ".mkv", ".webm", ".m4a", ".mov", ".3gp", ".flv"}
)

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DownloadsDirName), nil
}

// ResolveOutputDir returns dir with "~" expanded, or the Downloads directory
// when dir is empty
func ResolveOutputDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return GetHomeDownloadsDir()
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(homeDir, strings.TrimPrefix(dir, "~"))
	}
	return filepath.Clean(dir), nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist. A regular
// file at dirPath is an error.
func CreateDirectoryIfNotExists(dirPath string) error {
	return os.MkdirAll(dirPath, DefaultDirPermissions)
}

// FindDownloadedFile returns filePath if it exists. Otherwise it looks in the
// same directory for the file a downloader actually wrote: same stem with a
// different media extension (merge/remux), then a similar stem.
func FindDownloadedFile(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path is empty")
	}
	if strings.HasPrefix(filePath, "http") {
		return "", fmt.Errorf("file path appears to be a URL: %s", filePath)
	}

	if info, err := os.Stat(filePath); err == nil && !info.IsDir() {
		return filePath, nil
	}

	dir := filepath.Dir(filePath)
	stem := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var sameStem, similar []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if isSkippedExtension(name) || !isMediaExtension(ext) {
			continue
		}
		entryStem := strings.TrimSuffix(name, filepath.Ext(name))
		switch {
		case entryStem == stem:
			sameStem = append(sameStem, filepath.Join(dir, name))
		case isSimilarFileName(entryStem, stem):
			similar = append(similar, filepath.Join(dir, name))
		}
	}

	if len(sameStem) > 0 {
		sort.Slice(sameStem, func(i, j int) bool {
			return extensionRank(sameStem[i]) < extensionRank(sameStem[j])
		})
		return sameStem[0], nil
	}
	if len(similar) > 0 {
		sort.Strings(similar)
		return similar[0], nil
	}

	return "", fmt.Errorf("file not found: %s", filePath)
}

// FindNewestMedia returns the most recently modified media file in dir that
// was written at or after since. Used when a downloader does not say what it wrote.
func FindNewestMedia(dir string, since time.Time) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	// filesystems with coarse timestamps round down
	cutoff := since.Truncate(time.Second).Add(-time.Second)

	var newest string
	var newestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if isSkippedExtension(name) || !isMediaExtension(strings.ToLower(filepath.Ext(name))) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().Before(cutoff) {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = filepath.Join(dir, name)
			newestTime = info.ModTime()
		}
	}

	if newest == "" {
		return "", fmt.Errorf("no media file written to %s", dir)
	}
	return newest, nil
}

// extensionRank orders candidates by MediaExtensions preference
func extensionRank(path string) int {
	ext := strings.ToLower(filepath.Ext(path))
	for i, candidate := range MediaExtensions {
		if candidate == ext {
			return i
		}
	}
	return len(MediaExtensions)
}

func isMediaExtension(ext string) bool {
	for _, candidate := range MediaExtensions {
		if candidate == ext {
			return true
		}
	}
	return false
}

func isSkippedExtension(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isSimilarFileName checks if two stems are close enough to be the same file.
// Downloaders add format ids (".f137"), separators or truncate long titles.
func isSimilarFileName(name1, name2 string) bool {
	clean1 := strings.TrimSpace(name1)
	clean2 := strings.TrimSpace(name2)

	if clean1 == "" || clean2 == "" {
		return false
	}
	if clean1 == clean2 {
		return true
	}

	for _, sep := range []string{"-", "_", " ", "."} {
		if clean2 == sep+clean1 || clean2 == clean1+sep || clean1 == sep+clean2 || clean1 == clean2+sep {
			return true
		}
	}

	if strings.Contains(clean1, clean2) || strings.Contains(clean2, clean1) {
		diff := len(clean1) - len(clean2)
		if diff < 0 {
			diff = -diff
		}
		return diff <= MaxNameDifference
	}

	return false
}

// OpenFileInManager reveals the file in the system file manager
func OpenFileInManager(filePath string) error {
	foundPath, err := FindDownloadedFile(filePath)
	if err != nil {
		return fmt.Errorf("file does not exist: %v", err)
	}

	absPath, err := filepath.Abs(foundPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		return openDirectoryLinux(filepath.Dir(absPath))
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openDirectoryLinux opens a directory; selecting a file is not standardized on Linux
func openDirectoryLinux(dir string) error {
	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}

// OpenFileWithDefaultApp opens the file with the default system application
func OpenFileWithDefaultApp(filePath string) error {
	foundPath, err := FindDownloadedFile(filePath)
	if err != nil {
		return fmt.Errorf("file does not exist: %v", err)
	}

	absPath, err := filepath.Abs(foundPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", absPath).Run()
	case OSLinux:
		return exec.Command(XDGOpenCommand, absPath).Run()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
