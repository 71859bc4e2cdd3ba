package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `hiyaw-admin manages the training sessions and animation projects shown on the HIYAW site.

Core concepts:
- Training session: title, description, google_link and one or more images.
- Project: title, category, optional description and at most one video.
- Form: a server-side editing session returned as form_id. A form is in create mode (no id) or edit mode (existing record).
- Staged files: files added to a form but not yet uploaded. They are sent on submit_form and never before.

Default workflow:
1) Browse: list_trainings / list_projects.
2) Open: open_training_form or open_project_form (pass id to edit).
3) Fill: set_training_fields / set_project_fields, then stage_files for images or the video.
4) Check: describe_form shows fields, previews and notices.
5) Send: submit_form. Outcome "invalid" carries per-field errors; "failed" carries the backend message as a notice.
6) Clean up: close_form when abandoning a form. Edit forms close on their own after a successful save.

Deleting: delete_training / delete_project need confirm=true. Always ask the user first.

Docs:
- hiyaw://docs/index
- hiyaw://docs/forms
- hiyaw://docs/media
- hiyaw://docs/validation
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "hiyaw://docs/index",
		Name:        "docs_index",
		Title:       "hiyaw-admin docs index",
		Description: "Entry point: what each doc covers and when to read it.",
		Content: `# hiyaw-admin docs

- ` + "`hiyaw://docs/forms`" + ` - form lifecycle, modes and what each submit sends.
- ` + "`hiyaw://docs/media`" + ` - staging files, previews and how replacement works.
- ` + "`hiyaw://docs/validation`" + ` - every field rule with its exact error message.

## Limits

- There is no pagination; lists return the whole collection.
- Search is a case-insensitive substring match done after fetching.
- Uploaded media is stored by the backend. This server only stages bytes until submit.
`,
	},
	{
		URI:         "hiyaw://docs/forms",
		Name:        "docs_forms",
		Title:       "Form lifecycle",
		Description: "Create vs edit mode, submission states, and the exact multipart payloads.",
		Content: `# Forms

A form is opened in **create** mode (no id) or **edit** mode (id of an existing record).
Edit forms start from a snapshot of the record; the stored record is never modified in place.

## States

` + "`idle`" + ` -> ` + "`validating`" + ` -> ` + "`submitting`" + ` -> ` + "`idle`" + `

Only one submission runs per form. While submitting, edits are rejected with ` + "`SUBMIT_IN_FLIGHT`" + `.

## What submit sends

Training (POST /trainings or PUT /trainings/{id}):
- fields ` + "`title`" + `, ` + "`description`" + `, ` + "`google_link`" + `
- one ` + "`images`" + ` part per staged image (none in edit mode keeps the stored images)

Project (POST /projects or PUT /projects/{id}):
- fields ` + "`title`" + `, ` + "`category`" + `, ` + "`description`" + `
- ` + "`videoFile`" + ` only when a new video is staged

## After submit

- saved, create mode: the form resets and stays open.
- saved, edit mode: the form closes.
- failed: fields and staged files are kept; the backend message is returned as a notice.
`,
	},
	{
		URI:         "hiyaw://docs/media",
		Name:        "docs_media",
		Title:       "Staging media",
		Description: "How staged files, previews and stored media interact per form kind.",
		Content: `# Media staging

Pass files to ` + "`stage_files`" + ` as ` + "`{name, content_type, content_base64}`" + ` or as
` + "`{path}`" + `. The content type is detected from the bytes.

Paths are resolved inside the server media root (` + "`HIYAW_MEDIA_ROOT`" + `). Paths that leave
the root, symlinks pointing out of it and non-regular files are refused. The root defaults to
the working directory over stdio and is unset over HTTP, so HTTP clients send content_base64.

Each staged file gets a preview URL under ` + "`/previews/`" + ` until it is removed, the form
resets or the form closes.

| Form | Mode | Adding files |
|---|---|---|
| training | create | appended to the staged list |
| training | edit | replaces the staged list; stored images are hidden while files are staged |
| project | any | keeps one video; a new one replaces the previous |

Stored media previews are marked ` + "`persisted`" + ` and cannot be removed with
` + "`remove_preview`" + `. ` + "`clear_new_media`" + ` brings them back.
`,
	},
	{
		URI:         "hiyaw://docs/validation",
		Name:        "docs_validation",
		Title:       "Validation rules",
		Description: "Field rules and the messages returned in VALIDATION_FAILED details.",
		Content: `# Validation

## Training session
- title: 3 to 100 characters
- description: 10 to 1000 characters
- google_link: absolute URL
- images: at least one when creating; each 5MB or less; jpeg, png, webp or gif

## Project
- title: 3 to 150 characters
- category: storytelling, social-awareness, mental-health, cultural-heritage, tutorial, showcase, experimental, short-film
- description: optional, up to 2000 characters
- videoFile: optional; 50MB or less; mp4, webm, ogg, quicktime or matroska

Lengths count characters, not bytes.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
