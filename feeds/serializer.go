package feeds

import (
	"bytes"
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var jsonOptions = protojson.MarshalOptions{AllowPartial: true}

// Serialize renders the document as indented protobuf JSON. An empty document
// still renders its header.
func Serialize(doc *Document) ([]byte, error) {
	return render(doc.Message())
}

// SerializeFeed renders a whole feed.
func SerializeFeed(feed *Feed) ([]byte, error) {
	return render(feed.Message())
}

// render normalizes protojson output, which is not byte-stable on its own,
// through json.Indent so equal messages give equal bytes.
func render(m proto.Message) ([]byte, error) {
	raw, err := jsonOptions.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
