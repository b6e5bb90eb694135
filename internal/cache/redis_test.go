package cache

import "testing"

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantAddr     string
		wantPassword string
		wantDB       int
		wantTLS      bool
		wantErr      bool
	}{
		{
			name:     "legacy host:port",
			url:      "localhost:6379",
			wantAddr: "localhost:6379",
		},
		{
			name:     "redis scheme",
			url:      "redis://redis.example.com:6379",
			wantAddr: "redis.example.com:6379",
		},
		{
			name:         "redis scheme with password",
			url:          "redis://:s3cret@redis.example.com:6379",
			wantAddr:     "redis.example.com:6379",
			wantPassword: "s3cret",
		},
		{
			name:     "redis scheme with database",
			url:      "redis://redis.example.com:6379/3",
			wantAddr: "redis.example.com:6379",
			wantDB:   3,
		},
		{
			name:     "rediss scheme enables TLS",
			url:      "rediss://redis.example.com:6380",
			wantAddr: "redis.example.com:6380",
			wantTLS:  true,
		},
		{
			name:    "unsupported scheme",
			url:     "http://redis.example.com:6379",
			wantErr: true,
		},
		{
			name:    "missing host",
			url:     "redis://",
			wantErr: true,
		},
		{
			name:    "invalid database number",
			url:     "redis://redis.example.com:6379/abc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, err := ParseRedisURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRedisURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if opt.Addr != tt.wantAddr {
				t.Errorf("Addr = %q, want %q", opt.Addr, tt.wantAddr)
			}
			if opt.Password != tt.wantPassword {
				t.Errorf("Password = %q, want %q", opt.Password, tt.wantPassword)
			}
			if opt.DB != tt.wantDB {
				t.Errorf("DB = %d, want %d", opt.DB, tt.wantDB)
			}
			if (opt.TLSConfig != nil) != tt.wantTLS {
				t.Errorf("TLSConfig set = %v, want %v", opt.TLSConfig != nil, tt.wantTLS)
			}
		})
	}
}
