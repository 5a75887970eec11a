package resolve

import "os"

// testSystem provides a mock System for unit tests.
//
// Methods fall back to RealSystem when their Func field is nil, so tests can
// combine t.TempDir() fixtures with targeted overrides.
type testSystem struct {
	RealSystem

	StatFunc         func(name string) (os.FileInfo, error)
	ReadFileFunc     func(name string) ([]byte, error)
	EvalSymlinksFunc func(path string) (string, error)
	GetenvFunc       func(key string) string
	GOOSFunc         func() string
}

func (s *testSystem) Stat(name string) (os.FileInfo, error) {
	if s.StatFunc != nil {
		return s.StatFunc(name)
	}
	return s.RealSystem.Stat(name)
}

func (s *testSystem) ReadFile(name string) ([]byte, error) {
	if s.ReadFileFunc != nil {
		return s.ReadFileFunc(name)
	}
	return s.RealSystem.ReadFile(name)
}

func (s *testSystem) EvalSymlinks(path string) (string, error) {
	if s.EvalSymlinksFunc != nil {
		return s.EvalSymlinksFunc(path)
	}
	return s.RealSystem.EvalSymlinks(path)
}

func (s *testSystem) Getenv(key string) string {
	if s.GetenvFunc != nil {
		return s.GetenvFunc(key)
	}
	return s.RealSystem.Getenv(key)
}

func (s *testSystem) GOOS() string {
	if s.GOOSFunc != nil {
		return s.GOOSFunc()
	}
	return s.RealSystem.GOOS()
}
