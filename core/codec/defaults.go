package codec

import (
	"errors"

	"github.com/pombreda/soundforest/core/models"
	"github.com/pombreda/soundforest/core/store"
)

// defaultCodec is one seed entry installed by Seed.
type defaultCodec struct {
	name        string
	description string
	extensions  []string
	decoders    []Template
	encoders    []Template
	testers     []Template
}

// defaultCodecs is the stock codec set. Seeding never overwrites a codec the
// user already registered, so edits here do not touch existing databases.
var defaultCodecs = []defaultCodec{
	{
		name:        "mp3",
		description: "MPEG-1 or MPEG-2 Audio Layer III",
		extensions:  []string{"mp3"},
		encoders:    []Template{"lame --quiet -b 320 --vbr-new -ms --replaygain-accurate FILE OUTFILE"},
		decoders:    []Template{"lame --quiet --decode FILE OUTFILE"},
	},
	{
		name:        "aac",
		description: "Advanced Audio Coding",
		extensions:  []string{"aac", "m4a", "mp4"},
		encoders: []Template{
			"neroAacEnc -if FILE -of OUTFILE -br 256000 -2pass",
			"afconvert -b 256000 -v -f m4af -d aac FILE OUTFILE",
		},
		decoders: []Template{
			"neroAacDec -if OUTFILE -of FILE",
			"faad -q -o OUTFILE FILE -b1",
		},
	},
	{
		name:        "vorbis",
		description: "Ogg Vorbis",
		extensions:  []string{"vorbis", "ogg"},
		encoders:    []Template{"oggenc --quiet -q 7 -o OUTFILE FILE"},
		decoders:    []Template{"oggdec --quiet -o OUTFILE FILE"},
		testers:     []Template{"ogginfo -q FILE"},
	},
	{
		name:        "flac",
		description: "Free Lossless Audio Codec",
		extensions:  []string{"flac"},
		encoders:    []Template{"flac -f --silent --verify --replay-gain -o OUTFILE FILE"},
		decoders:    []Template{"flac -f --silent --decode -o OUTFILE FILE"},
		testers:     []Template{"flac --silent --test FILE"},
	},
	{
		name:        "wavpack",
		description: "WavPack Lossless Audio Codec",
		extensions:  []string{"wv", "wavpack"},
		encoders:    []Template{"wavpack -yhx FILE -o OUTFILE"},
		decoders:    []Template{"wvunpack -yq FILE -o OUTFILE"},
		testers:     []Template{"wvunpack -vq FILE"},
	},
	{
		name:        "caf",
		description: "CoreAudio Format audio",
		extensions:  []string{"caf"},
		encoders:    []Template{"afconvert -f caff -d LEI16 FILE OUTFILE"},
		decoders:    []Template{"afconvert -f WAVE -d LEI16 FILE OUTFILE"},
	},
	{
		name:        "aif",
		description: "AIFF audio",
		extensions:  []string{"aif", "aiff"},
		encoders:    []Template{"afconvert -f AIFF -d BEI16 FILE OUTFILE"},
		decoders:    []Template{"afconvert -f WAVE -d LEI16 FILE OUTFILE"},
	},
	{
		name:        "wav",
		description: "RIFF Wave Audio",
		extensions:  []string{"wav"},
	},
}

// Seed registers the default codecs and their commands, skipping every codec
// name already present. It returns the number of codecs installed.
func (r *Registry) Seed() (int, error) {
	installed := 0
	for _, d := range defaultCodecs {
		if _, err := r.Get(d.name); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return installed, err
		}

		if _, err := r.Register(d.name, d.description, d.extensions); err != nil {
			return installed, err
		}
		for i, t := range d.decoders {
			if err := r.addCommand(d.name, models.RoleDecoder, t, len(d.decoders)-i); err != nil {
				return installed, err
			}
		}
		for i, t := range d.encoders {
			if err := r.addCommand(d.name, models.RoleEncoder, t, len(d.encoders)-i); err != nil {
				return installed, err
			}
		}
		for i, t := range d.testers {
			if err := r.addCommand(d.name, models.RoleTester, t, len(d.testers)-i); err != nil {
				return installed, err
			}
		}
		installed++
	}
	return installed, nil
}
