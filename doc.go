/*
Command obj2dsk uses the SPICE mkdsk program to convert a .obj file to a DSK
file.

Contents

  Program overview
  Installing
  Command line usage
  Configuring defaults
  File formats


Program overview

The SPICE toolkit program mkdsk builds a digital shape kernel (DSK) from
plate data, a list of vertices and a list of triangular plates referring to
them.  Wavefront .obj files can supply this data but commonly carry much
more: texture coordinates, normals, groups, materials.  obj2dsk

  1. writes a "cleaned" copy of the .obj file holding only vertex ("v")
     lines and face ("f") lines reduced to vertex indices,
  2. writes an mkdsk setup file, unless you supply one,
  3. runs mkdsk, and
  4. removes the cleaned copy and the setup file it wrote, unless asked to
     keep them.

The SPICE toolkit must be installed with mkdsk on your PATH or named with
-mkdsk.  Tessellation, voxelization and all DSK encoding are done by mkdsk.

Sample run:

  obj2dsk -s 2486958 -c 2486958 -f MU69_FIXED \
      -l naif0012.tls -kernels nh_mu69.tpc mu69.obj

writes mu69.bds.  The intermediate files are mu69.obj2dsk.cleaned.obj
and mu69.obj2dsk.mkdsksetup.


Installing

    go install github.com/soniakeys/spicer@latest
    go install github.com/soniakeys/spicer/spkern@latest

The companion command spkern downloads and inspects the NAIF generic
kernels.  See go doc github.com/soniakeys/spicer/spkern.


Command line usage

  Usage: obj2dsk [options] <file.obj>    make a DSK file from a .obj file
         obj2dsk -version                 display version and copyright

  Options:
    -o, -output <file|.suffix>  output DSK file (default .bds)
    -s, -surface <name>         SURFACE_NAME
    -c, -center <name>          CENTER_NAME
    -f, -frame <name>           REF_FRAME_NAME
    -l, -lsk <file>             LEAPSECONDS_FILE
    -kernels <file>             KERNELS_TO_LOAD
    -k, -keep                   keep intermediate files
    -m, -mkdsksetup <file>      use an existing mkdsk setup file
    -n, -dry-run                print the mkdsk setup file and exit
    -mkdsk <program>            mkdsk program
    -fetch                      download the generic LSK and PCK if missing
    -config <file>              YAML defaults file
    -v, -verbose                report progress

An -output value beginning with '.' and containing no path separator is a
suffix.  It replaces the suffix of the .obj file name to give the output
file name.

With -m, the setup file is used as is.  The values of -s, -c, -f, -l and
-kernels are ignored, as are -n and the setup section of the defaults file.
The setup file is not removed afterwards.

With -n, the setup file that would be written is printed.  Nothing is
written and mkdsk is not run.

If mkdsk fails, obj2dsk exits with mkdsk's exit status and leaves the
intermediate files in place.


Configuring defaults

Frequently used values can go in a YAML file, by default spicer/spicer.yaml
under the user configuration directory (see the -h output for the
location), or a file named with -config.  Command line options override the
file.

  surface: "2486958"
  center: "2486958"
  frame: MU69_FIXED
  lsk: /data/nh/lsk/naif0012.tls
  kernels: /data/nh/ggi/nh_mu69.tpc
  mkdsk: /opt/cspice/exe/mkdsk
  kernel_root: /data/generic_kernels
  setup:
    start: 1950-01-01
    stop: JD 2469807.5
    min_latitude: -90
    max_latitude: 90
    min_longitude: -180
    max_longitude: 180
    fine_voxel_scale: 4.0
    coarse_voxel_scale: 5

The setup section changes values that are otherwise fixed in the generated
setup file.  Times are RFC 3339, a plain date, or a Julian date after "JD".
Angles are in degrees.

Without lsk and kernels values, the generic leapseconds kernel and PCK under
the kernel root are used.  The kernel root is kernel_root, or else the
environment variable SPICER_KERNELS, or else spicer/kernels under the user
cache directory.  -fetch downloads these two kernels if they are missing.


File formats

The generated setup file is a SPICE text kernel:

  \begindata

  COMMENT_FILE        = ' '
  SURFACE_NAME        = '2486958'
  CENTER_NAME         = '2486958'
  REF_FRAME_NAME      = 'MU69_FIXED'
  START_TIME          = '1950-JAN-1/00:00:00'
  STOP_TIME           = '2050-JAN-1/00:00:00'
  DATA_CLASS          = 2
  INPUT_DATA_UNITS    = ( 'ANGLES    = DEGREES'
                          'DISTANCES = KILOMETERS' )
  COORDINATE_SYSTEM   = 'LATITUDINAL'
  MINIMUM_LATITUDE    = -90
  MAXIMUM_LATITUDE    =  90
  MINIMUM_LONGITUDE   = -180
  MAXIMUM_LONGITUDE   =  180
  DATA_TYPE           = 2
  PLATE_TYPE          = 3
  FINE_VOXEL_SCALE    = 4.0
  COARSE_VOXEL_SCALE  = 5

  LEAPSECONDS_FILE    = 'naif0012.tls'
  KERNELS_TO_LOAD = ('nh_mu69.tpc' )

See the mkdsk User's Guide in the SPICE toolkit documentation for the
meaning of each keyword.

-------------
Public domain.
*/
package main
