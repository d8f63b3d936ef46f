/*
Command spkern manages a local copy of the NAIF generic SPICE kernels.

Programs making SPICE computations for planetary bodies, without spacecraft
data, need the same few generic kernels:

	lsk/naif0012.tls            leapseconds
	pck/pck00010.tpc            planetary constants
	pck/de-403-masses.tpc       planet masses
	spk/planets/de430.bsp       planetary ephemeris
	spk/satellites/mar097.bsp   Mars satellite ephemeris

spkern keeps these under a kernel root directory, mirroring their layout in
the NAIF archive at https://naif.jpl.nasa.gov/pub/naif/generic_kernels/.
Missing kernels are downloaded on demand.  Note that de430.bsp is over
100 MB.

Usage:

	spkern [options] paths             list local kernel paths
	spkern [options] check             download missing kernels
	spkern [options] download [name]   download kernels, present or not
	spkern [options] load              check, load, and list loaded kernels
	spkern [options] masses            load the masses kernel and list
	spkern [options] show <file>...    load kernel files and list
	spkern -version                    display version and copyright

Options:

	-root <dir>       kernel root
	-url <url>        archive root URL
	-config <file>    YAML defaults file, as for obj2dsk
	-v                report progress

The kernel root is, in order of precedence, -root, kernel_root in the
defaults file, the environment variable SPICER_KERNELS, or spicer/kernels
under the user cache directory.

Show is useful for seeing what a meta-kernel loads.  The listing gives each
loaded file's position in load order, path (relative to the kernel root
where possible), kernel type, the meta-kernel that loaded it if any, and
handle.

Built with -tags cspice, kernels are loaded with CSPICE through cgo and
the listing is CSPICE's own.  Otherwise files are identified and recorded
following CSPICE's rules but their data is not read.

-------------
Public domain.
*/
package main
