package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path. The test fails immediately on any error.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// PointSource is a small Rust file exercising a struct, a list and a box.
const PointSource = `pub struct Point {
    pub x: f64,
    pub y: f64,
}

pub struct Path {
    pub points: Vec<Point>,
    pub next: Box<Path>,
}

pub fn scale(p: Point, factor: f64) -> Result<Point> {
    Ok(p)
}

pub fn trace(path: Path) -> Result<Vec<Point>> {
    Ok(path.points)
}
`
