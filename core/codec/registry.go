package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pombreda/soundforest/core/models"
	"github.com/pombreda/soundforest/core/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry holds the configured codecs and their command templates.
type Registry struct {
	store  *store.Store
	logger *zap.Logger
}

// NewRegistry creates a codec registry over the store.
func NewRegistry(s *store.Store, logger *zap.Logger) *Registry {
	return &Registry{store: s, logger: logger}
}

// Register adds a codec with its extension set. Codec names are unique;
// a second registration fails with store.ErrDuplicateEntry.
func (r *Registry) Register(name, description string, extensions []string) (*models.Codec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	cleaned := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			cleaned = append(cleaned, e)
		}
	}

	c := &models.Codec{Name: name, Description: description, Extensions: strings.Join(cleaned, ",")}
	err := r.store.DB().Create(c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("codec %q: %w", name, store.ErrDuplicateEntry)
		}
		return nil, err
	}
	return c, nil
}

// Unregister removes a codec and its commands.
func (r *Registry) Unregister(name string) error {
	c, err := r.Get(name)
	if err != nil {
		return err
	}
	return r.store.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("codec_id = ?", c.ID).Delete(&models.CodecCommand{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Codec{}, c.ID).Error
	})
}

// Get looks up a codec by name, commands included.
func (r *Registry) Get(name string) (*models.Codec, error) {
	var c models.Codec
	err := r.store.DB().Preload("Commands").Where("name = ?", strings.ToLower(name)).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("codec %q: %w", name, store.ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

// Codecs returns all registered codecs with their commands.
func (r *Registry) Codecs() ([]models.Codec, error) {
	var codecs []models.Codec
	if err := r.store.DB().Preload("Commands").Order("name").Find(&codecs).Error; err != nil {
		return nil, err
	}
	return codecs, nil
}

// AddDecoder registers a decoder command template for the codec.
func (r *Registry) AddDecoder(codecName string, template Template, priority int) error {
	return r.addCommand(codecName, models.RoleDecoder, template, priority)
}

// AddEncoder registers an encoder command template for the codec.
func (r *Registry) AddEncoder(codecName string, template Template, priority int) error {
	return r.addCommand(codecName, models.RoleEncoder, template, priority)
}

// AddTester registers a tester command template for the codec.
func (r *Registry) AddTester(codecName string, template Template, priority int) error {
	return r.addCommand(codecName, models.RoleTester, template, priority)
}

// addCommand validates the template for the role and stores it. An invalid
// template fails with ErrInvalidCodecCommand and nothing is stored.
func (r *Registry) addCommand(codecName string, role models.CommandRole, template Template, priority int) error {
	if err := template.Validate(role); err != nil {
		return err
	}
	c, err := r.Get(codecName)
	if err != nil {
		return err
	}
	cmd := models.CodecCommand{CodecID: c.ID, Role: role, Template: string(template), Priority: priority}
	return r.store.DB().Create(&cmd).Error
}

// Match returns the codec owning the path's extension, or store.ErrNotFound.
func (r *Registry) Match(path string) (*models.Codec, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return nil, fmt.Errorf("no extension on %q: %w", path, store.ErrNotFound)
	}
	codecs, err := r.Codecs()
	if err != nil {
		return nil, err
	}
	for i := range codecs {
		if codecs[i].HasExtension(ext) {
			return &codecs[i], nil
		}
	}
	return nil, fmt.Errorf("codec for extension %q: %w", ext, store.ErrNotFound)
}

// commands returns a codec's templates for one role, highest priority first.
func commands(c *models.Codec, role models.CommandRole) []Template {
	var picked []models.CodecCommand
	for _, cmd := range c.Commands {
		if cmd.Role == role {
			picked = append(picked, cmd)
		}
	}
	// Stable by priority descending; registration order breaks ties.
	for i := 1; i < len(picked); i++ {
		for j := i; j > 0 && picked[j].Priority > picked[j-1].Priority; j-- {
			picked[j], picked[j-1] = picked[j-1], picked[j]
		}
	}
	out := make([]Template, len(picked))
	for i, cmd := range picked {
		out[i] = Template(cmd.Template)
	}
	return out
}

// Decoders returns the codec's decoder templates, best first.
func (r *Registry) Decoders(c *models.Codec) []Template { return commands(c, models.RoleDecoder) }

// Encoders returns the codec's encoder templates, best first.
func (r *Registry) Encoders(c *models.Codec) []Template { return commands(c, models.RoleEncoder) }

// Testers returns the codec's tester templates, best first.
func (r *Registry) Testers(c *models.Codec) []Template { return commands(c, models.RoleTester) }
