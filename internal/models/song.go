package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Song is a document in the songs collection. ObjectID is assigned by the
// store; SongID is the user-facing id.
type Song struct {
	ObjectID primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	SongID   int64              `json:"id"  bson:"id"`
	Title    string             `json:"title"  bson:"title"`
	Artist   string             `json:"artist" bson:"artist"`
	Lyrics   string             `json:"lyrics" bson:"lyrics"`
}

// SongFields is a partial song used by updates. Nil fields are left alone.
type SongFields struct {
	Title  *string `json:"title,omitempty"  bson:"title,omitempty"`
	Artist *string `json:"artist,omitempty" bson:"artist,omitempty"`
	Lyrics *string `json:"lyrics,omitempty" bson:"lyrics,omitempty"`
}

func (f SongFields) Empty() bool {
	return f.Title == nil && f.Artist == nil && f.Lyrics == nil
}

// Apply returns a copy of s with the non-nil fields of f set.
func (s Song) Apply(f SongFields) Song {
	if f.Title != nil {
		s.Title = *f.Title
	}
	if f.Artist != nil {
		s.Artist = *f.Artist
	}
	if f.Lyrics != nil {
		s.Lyrics = *f.Lyrics
	}
	return s
}

// Changes lists the fields of f whose value differs between before and after,
// keyed by JSON name.
func (f SongFields) Changes(before, after Song) map[string]any {
	out := map[string]any{}
	if f.Title != nil && before.Title != after.Title {
		out["title"] = after.Title
	}
	if f.Artist != nil && before.Artist != after.Artist {
		out["artist"] = after.Artist
	}
	if f.Lyrics != nil && before.Lyrics != after.Lyrics {
		out["lyrics"] = after.Lyrics
	}
	return out
}
