// Package project saves and restores a whole gridstorm session: canvas
// cells, bookmarks, zone definitions, the cursor and the origin.
//
// Projects are JSON documents:
//
//	{
//	  "version": 1,
//	  "cells": [{"x": 0, "y": 0, "c": "#"}],
//	  "bookmarks": {"a": {"x": 10, "y": 4}},
//	  "zones": [{"name": "clock", "type": "watch", "command": "date", ...}],
//	  "cursor": {"x": 3, "y": 1},
//	  "origin": {"x": 0, "y": 0}
//	}
//
// Zone content is not saved. Live zones restart from their definition
// when the project is opened.
//
// Files are written to a temporary sibling and renamed into place, so a
// crash during save leaves the previous file intact.
package project
