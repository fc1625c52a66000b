/*
Package fileassoc registers an application with the Windows shell and binds
file extensions to it.

# Quick Start

Register the running executable and open .note files with it:

	s, err := winreg.New(winreg.ScopeUser)
	if err != nil {
	    log.Fatal(err)
	}
	defer s.Close()

	c := fileassoc.New(s)
	app, err := c.Current(fileassoc.Descriptor{
	    ID:   "Acme.Notes",
	    Name: "Acme Notes",
	}, fileassoc.ReadWrite())
	if err != nil {
	    log.Fatal(err)
	}
	err = app.SetFileTypeAssociation(".note")

# Permissions

An Application carries the permissions it was opened with. Operations check
them before touching the store:

  - Read gates EnumerateAssociations and Get.
  - Write gates Create, Delete and association changes.
  - Strict makes SetFileTypeAssociation refuse extensions owned by another
    ProgID and Delete refuse while extensions still point at the ProgID.

A failed gate returns types.ErrReadPermissionRequired or
types.ErrWritePermissionRequired and performs no store access.

# Stores

Any store.Store works. Production code uses store/winreg; tests and offline
tooling use store/memstore.
*/
package fileassoc
