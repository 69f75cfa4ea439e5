package model

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Encode writes p as {"author":{"name","link"},"url","color"}.
func (p Photo) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("author")
	e.ObjStart()
	e.FieldStart("name")
	e.Str(p.Author.Name)
	e.FieldStart("link")
	e.Str(p.Author.Link)
	e.ObjEnd()
	e.FieldStart("url")
	e.Str(p.URL)
	e.FieldStart("color")
	if p.Color == nil {
		e.Null()
	} else {
		e.Str(*p.Color)
	}
	e.ObjEnd()
}

// Decode reads a Photo, ignoring unknown fields.
func (p *Photo) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "author":
			return d.Obj(func(d *jx.Decoder, key string) error {
				switch key {
				case "name":
					v, err := d.Str()
					p.Author.Name = v
					return err
				case "link":
					v, err := d.Str()
					p.Author.Link = v
					return err
				default:
					return d.Skip()
				}
			})
		case "url":
			v, err := d.Str()
			p.URL = v
			return err
		case "color":
			if d.Next() == jx.Null {
				p.Color = nil
				return d.Null()
			}
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Color = &v
			return nil
		default:
			return d.Skip()
		}
	})
}

func (env ErrorEnvelope) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("message")
	e.Str(env.Message)
	e.FieldStart("status")
	e.Int(env.Status)
	e.ObjEnd()
}

func (env *ErrorEnvelope) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "message":
			v, err := d.Str()
			env.Message = v
			return err
		case "status":
			v, err := d.Int()
			env.Status = v
			return err
		default:
			return d.Skip()
		}
	})
}

// DecodePhotoBytes decodes a proxy response body. A body carrying an error
// envelope is returned as the envelope instead.
func DecodePhotoBytes(b []byte) (Photo, *ErrorEnvelope, error) {
	var env ErrorEnvelope
	if err := env.Decode(jx.DecodeBytes(b)); err == nil && env.Message != "" {
		return Photo{}, &env, nil
	}

	var p Photo
	if err := p.Decode(jx.DecodeBytes(b)); err != nil {
		return Photo{}, nil, errors.Wrap(err, "decode photo")
	}
	return p, nil, nil
}
