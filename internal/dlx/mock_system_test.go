package dlx

// testSystem provides a mock System for unit tests. Methods fall back to
// RealSystem when their Func field is nil.
type testSystem struct {
	RealSystem

	UserCacheDirFunc func() (string, error)
	GetenvFunc       func(key string) string
}

func (s *testSystem) UserCacheDir() (string, error) {
	if s.UserCacheDirFunc != nil {
		return s.UserCacheDirFunc()
	}
	return s.RealSystem.UserCacheDir()
}

func (s *testSystem) Getenv(key string) string {
	if s.GetenvFunc != nil {
		return s.GetenvFunc(key)
	}
	return s.RealSystem.Getenv(key)
}

// cacheAt returns a System whose cache root and environment are fully
// test-controlled; env holds overrides beyond SHIMBIN_CACHE_DIR.
func cacheAt(dir string, env map[string]string) *testSystem {
	return &testSystem{
		GetenvFunc: func(key string) string {
			if key == EnvCacheDir {
				return dir
			}
			return env[key]
		},
	}
}
