// Package model defines the data shapes shared between the localdrop
// front end and the transfer backend: discovered devices, the local
// device identity, files selected for sending and incoming transfer
// requests. JSON tags follow the backend's wire names.
package model
