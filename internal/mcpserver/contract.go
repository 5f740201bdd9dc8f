package mcpserver

// DocumentFormatContract describes the document layout and the rules the
// classifier applies, for LLM consumers that read or author documents.
const DocumentFormatContract = `# Documentation Format Contract

Documents live in one directory per category, named ` + "`<PROJECT>-<category>`" + `
(for example ` + "`PRJ-api`" + `). Categories, in scan order: deployment, testing,
product, tech, architecture, development, types, design, doc-closure,
detailed-design, project-planning, requirements, operations, support, api.
Each module may carry a ` + "`README.md`" + ` describing it; the README is never
treated as a document.

## File names

` + "`<ordinal>-<PROJECT>-<category>-<Title>.md`" + `, e.g. ` + "`012-PRJ-api-Gateway.md`" + `.
A file name containing ` + "`reserved`" + ` marks a placeholder that has not been written yet.

## Required structure

A finished document contains all of these headings verbatim:

` + "```" + `markdown
## Overview
## Core Content
### 1. Background & Goals
` + "```" + `

## Incompleteness markers

A document containing any of the following is counted as a template, not as
completed work: ` + "`[required]`, `[optional]`, `[TODO]`, `[to-fill]`, `[to-complete]`" + `,
the phrase "Content coming soon", or the word ` + "`reserved`" + `.
Completed = neither placeholder nor template.

## References

Cross-document references are inline Markdown links ` + "`[text](target)`" + ` with a
non-empty text; the target may contain spaces. A relative target is resolved
against the documentation root, an absolute one is checked as written, so write
` + "`PRJ-deployment/001-PRJ-deployment-Auth.md`" + `, not ` + "`../PRJ-deployment/...`" + `.
A target that does not exist is reported as a broken reference. A document that
neither references nor is referenced by anything is reported as an orphan.

## Example

` + "```" + `markdown
---
file: 012-PRJ-api-Gateway.md
description: Gateway service
author: Documentation Team
version: 1.0.0
status: published
tags:
    - api
    - Gateway
---

# 012 API - Gateway

## Overview

Routes external traffic to internal services.

## Core Content

### 1. Background & Goals

See [authentication](PRJ-deployment/001-PRJ-deployment-Auth.md).
` + "```" + `
`
