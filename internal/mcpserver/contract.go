package mcpserver

// MarkerContract describes how a page requests generated blocks. LLM
// consumers should read it before editing wiki pages.
const MarkerContract = `# wikiblocks Marker Contract

Pages opt in to generated content with a placeholder line. Each run replaces
the placeholder, or the block a previous run left behind, with a freshly
rendered block.

## Table of contents

Put ` + "`__TOC__`" + ` on a line of its own. It becomes:

` + "```" + `markdown
<!-- toc:start -->
<!-- This table of contents is generated automatically. Manual edits will be lost. -->

**Table of Contents:**

- [Title](#title)
    - [Section](#section)

<!-- toc:end -->
` + "```" + `

## Backlinks

Put ` + "`__BACKLINKS__`" + ` on a line of its own. It becomes a list of every page
containing a ` + "`[[wikilink]]`" + ` to this page:

` + "```" + `markdown
<!-- backlinks:start -->
<!-- This list of backlinks is generated automatically. Manual edits will be lost. -->

## Backlinks

- [[Other Page]]

<!-- backlinks:end -->
` + "```" + `

## Rules

1. Never edit between the start and end markers; the next run overwrites it.
2. Page names come from file names with hyphens read as spaces:
   ` + "`My-Page.md`" + ` is ` + "`[[My Page]]`" + `. Matching ignores case.
3. In ` + "`[[shown text|Target]]`" + ` the part after the pipe is the target.
4. A page without a placeholder or block is never modified.
`
