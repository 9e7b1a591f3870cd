// Package formats encodes avatars for download.
//
// FBX output is a minimal ASCII 7.4 document carrying one geometry and one
// model, written from a flattened world-space triangle stream. glTF output
// keeps the node hierarchy and materials and is produced with
// github.com/qmuntal/gltf, either as GLB or as JSON with the buffer
// embedded as a data URI.
package formats
