// Package feeds fetches GTFS-Realtime feeds over HTTP, decodes them into
// entities with a single typed payload, selects the entities for one category
// and renders the result as JSON.
//
// Each stage is a plain function or a small stateless type, so one invocation
// of Fetch → Decode → Classify → Serialize owns everything it creates.
package feeds
