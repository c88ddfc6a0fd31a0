package config

import (
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
)

// ConnectCloudinary returns nil when CLOUDINARY_URL is unset; media uploads
// are then rejected.
func ConnectCloudinary(cfg *Config) (*cloudinary.Cloudinary, error) {
	if cfg.CloudinaryURL == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return cld, nil
}
