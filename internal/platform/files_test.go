package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "nested", "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestResolveOutputDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		input    string
		expected string
	}{
		{"", filepath.Join(home, "Downloads")},
		{"   ", filepath.Join(home, "Downloads")},
		{"~", home},
		{"~/Videos", filepath.Join(home, "Videos")},
		{"/srv/media/", "/srv/media"},
	}

	for _, test := range tests {
		result, err := ResolveOutputDir(test.input)
		if err != nil {
			t.Fatalf("ResolveOutputDir(%q) returned error: %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("ResolveOutputDir(%q) = %s, expected %s", test.input, result, test.expected)
		}
	}
}

func TestFindDownloadedFile_ExistingFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "My_Video.mp4")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	foundPath, err := FindDownloadedFile(path)
	if err != nil {
		t.Fatalf("Failed to find existing file: %v", err)
	}
	if foundPath != path {
		t.Errorf("Expected path %s, got %s", path, foundPath)
	}
}

func TestFindDownloadedFile_MergedExtension(t *testing.T) {
	tempDir := t.TempDir()

	// yt-dlp reports the pre-merge name but writes a .mkv
	reported := filepath.Join(tempDir, "My_Video.webm")
	actual := filepath.Join(tempDir, "My_Video.mkv")
	for _, p := range []string{actual, filepath.Join(tempDir, "My_Video.mkv.part"), filepath.Join(tempDir, "My_Video.info.json")} {
		if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}

	foundPath, err := FindDownloadedFile(reported)
	if err != nil {
		t.Fatalf("Failed to find merged file: %v", err)
	}
	if foundPath != actual {
		t.Errorf("Expected path %s, got %s", actual, foundPath)
	}
}

func TestFindDownloadedFile_PrefersMP4(t *testing.T) {
	tempDir := t.TempDir()
	for _, name := range []string{"clip.webm", "clip.mp4"} {
		if err := os.WriteFile(filepath.Join(tempDir, name), []byte("data"), 0o644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}

	foundPath, err := FindDownloadedFile(filepath.Join(tempDir, "clip.mkv"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filepath.Base(foundPath) != "clip.mp4" {
		t.Errorf("Expected clip.mp4, got %s", foundPath)
	}
}

func TestFindDownloadedFile_SimilarFileName(t *testing.T) {
	tempDir := t.TempDir()
	similarPath := filepath.Join(tempDir, "test_video.f137.mp4")
	if err := os.WriteFile(similarPath, []byte("data"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	foundPath, err := FindDownloadedFile(filepath.Join(tempDir, "test_video.mp4"))
	if err != nil {
		t.Fatalf("Failed to find similar file: %v", err)
	}
	if foundPath != similarPath {
		t.Errorf("Expected path %s, got %s", similarPath, foundPath)
	}
}

func TestFindDownloadedFile_NotFound(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "a.mp4"), []byte("data"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	originalPath := filepath.Join(tempDir, "test_video.mp4")
	_, err := FindDownloadedFile(originalPath)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}

	expectedError := "file not found: " + originalPath
	if err.Error() != expectedError {
		t.Errorf("Expected error message %s, got %v", expectedError, err)
	}
}

func TestFindDownloadedFile_InvalidInput(t *testing.T) {
	if _, err := FindDownloadedFile(""); err == nil {
		t.Error("Expected error for empty path")
	}
	if _, err := FindDownloadedFile("https://youtube.com/watch?v=x"); err == nil {
		t.Error("Expected error for URL input")
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	tempDir := t.TempDir()

	err := OpenFileInManager(filepath.Join(tempDir, "nonexistent.mp4"))
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "file does not exist:") {
		t.Errorf("Error message should contain 'file does not exist:', got: %v", err)
	}
}

func TestIsSimilarFileName(t *testing.T) {
	tests := []struct {
		name1, name2 string
		expected     bool
	}{
		{"test", "test", true},
		{"test", "-test", true},
		{"test", "test-", true},
		{"test", "_test", true},
		{"test", " test", true},
		{"test", "other", false},
		{"", "test", false},
		{"test_video", "test_video.f137", true},
		{"test_video_long", "test_video", true},
		{"test_video_very_long_name", "test_video", false},
	}

	for _, tt := range tests {
		t.Run(tt.name1+"_"+tt.name2, func(t *testing.T) {
			result := isSimilarFileName(tt.name1, tt.name2)
			if result != tt.expected {
				t.Errorf("isSimilarFileName(%q, %q) = %v, expected %v",
					tt.name1, tt.name2, result, tt.expected)
			}
		})
	}
}

func TestFindNewestMedia(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.mp4")
	fresh := filepath.Join(dir, "fresh.mkv")
	for _, name := range []string{old, fresh, filepath.Join(dir, "fresh.mkv.part"), filepath.Join(dir, "notes.txt")} {
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	path, err := FindNewestMedia(dir, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("Expected a file, got %v", err)
	}
	if path != fresh {
		t.Errorf("Expected %s, got %s", fresh, path)
	}

	if _, err := FindNewestMedia(dir, time.Now().Add(time.Hour)); err == nil {
		t.Error("Expected error when nothing is newer than since")
	}
}

func TestCreateDirectoryIfNotExists_FileInTheWay(t *testing.T) {
	file := filepath.Join(t.TempDir(), "taken")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CreateDirectoryIfNotExists(file); err == nil {
		t.Error("Expected error when a file occupies the path")
	}
}
